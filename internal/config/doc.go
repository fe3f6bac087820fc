// Package config loads hashnav configuration.
//
// Configuration lives in hashnav.json (or hashnav.yaml / hashnav.yml) at the
// project root. Missing sections fall back to defaults and a few keys can be
// overridden from the environment.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "address": "localhost:7070",
//	    "allowedOrigins": ["http://localhost:5173"],
//	    "readTimeout": "60s",
//	    "writeTimeout": "10s",
//	    "sendBuffer": 64
//	  },
//	  "log": {"level": "info", "format": "text"},
//	  "metrics": {"enabled": true, "path": "/metrics", "namespace": "hashnav"},
//	  "tracing": {"enabled": false, "tracerName": "hashnav"},
//	  "links": {
//	    "backend": "sqlite",
//	    "sqlite": {"path": "hashnav-links.db"},
//	    "s3": {"bucket": "links", "prefix": "hashnav/", "region": "us-east-1"}
//	  }
//	}
//
// # Environment
//
//	HASHNAV_ADDR           overrides server.address
//	HASHNAV_LOG_LEVEL      overrides log.level
//	HASHNAV_LINKS_BACKEND  overrides links.backend
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.ApplyEnv(os.LookupEnv)
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
