// Package config loads pagekit.json, the settings file for the pagekit
// command and its JSON dispatch server.
//
// The file is looked up in the working directory and then in each parent
// directory, so commands run from a subdirectory of a project still find
// it. Every field is optional; command-line flags override file values.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "0.0.0.0",
//	    "port": 44344,
//	    "debug": false,
//	    "shutdownTimeout": "10s",
//	    "allowedOrigins": ["https://app.example.com"]
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text",
//	    "file": "pagekit.log",
//	    "quiet": false
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "pagekit"
//	  },
//	  "timezone": "Europe/Berlin"
//	}
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
