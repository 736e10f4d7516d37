// Package config loads the certboot configuration file.
//
// The file is a flat JSON object with four required keys:
//
//	{
//	  "domain": "example.com",
//	  "email": "certbot@example.com",
//	  "nginx_image": "nginx:latest",
//	  "volume_prefix": "./data"
//	}
//
// Load fails when the file is missing, is not valid JSON, or lacks one of
// the keys. It does not judge the values: an empty domain loads fine and
// ends up in the rendered files as-is. Validate offers field checks for
// the separate validate command.
package config
