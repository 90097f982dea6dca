// Package config provides configuration parsing for vpbrowse.
//
// The configuration is stored in vpbrowse.json next to the served assets.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "name": "Video Browser",
//	  "basePath": "/app/",
//	  "api": {
//	    "baseURL": "https://pt.protoawe.com/api/video-promotion/v1",
//	    "psid": "demo",
//	    "accessKey": "secret",
//	    "timeout": "10s",
//	    "tagCacheTTL": "1h"
//	  },
//	  "server": {
//	    "host": "0.0.0.0",
//	    "port": 8080,
//	    "staticDir": "public",
//	    "s3": {"bucket": "my-assets", "region": "eu-west-1"},
//	    "metrics": true,
//	    "reload": {"enabled": true, "watch": ["public"]}
//	  },
//	  "ui": {"pageSize": 20, "featuredCount": 10}
//	}
//
// Credentials can be kept out of the file: VPBROWSE_API_PSID and
// VPBROWSE_API_ACCESS_KEY override the api section, VPBROWSE_PORT the
// server port.
//
// # Usage
//
//	cfg, err := config.LoadOptional(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
