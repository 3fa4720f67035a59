// Package config provides configuration parsing for livetree.
//
// The configuration is stored in livetree.json in the working directory.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "livetree"
//	  },
//	  "devtools": {
//	    "addr": "localhost:7070",
//	    "buffer": 256
//	  },
//	  "snapshot": {
//	    "dir": "snapshots",
//	    "s3": {
//	      "bucket": "my-bucket",
//	      "prefix": "trees/",
//	      "region": "us-east-1"
//	    }
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	logger := cfg.Logger(os.Stderr)
package config
