/*
Package config builds the runtime configuration for protosearch.

🎯 Purpose:
- Loads .env.dev (or .env) into the process environment
- Reads an optional YAML, HCL or JSON config file
- Overlays environment variables on top
- Builds the roots.Resolver from the configured year ranges

🔄 Precedence (lowest first):
1. Built-in defaults (three historical ranges, ~/Desktop/protocolos)
2. Config file, chosen by extension through the parser registry
3. Environment: LOG_PATH, DESTINATION_DIR, LOG_*, and one key per range
   name (RAIZ_2019_2021, RAIZ_2021_2023, RAIZ_2023_2025)

⚡ Notes:
- Config file roots are validated strictly; malformed roots coming from the
  environment are skipped at resolve time instead
- Unknown fields are rejected by the YAML and JSON parsers

🔍 Example (HCL):

	allow_list  = "/srv/protosearch/allow.txt"
	destination = "${env.HOME}/Desktop/protocolos"

	range "RAIZ_2023_2025" {
	  from = 2023
	  to   = 2025
	  root = "/mnt/gravacoes,true"
	}

	log {
	  level = "debug"
	  file  = "/var/log/protosearch.log"
	}
*/
package config
