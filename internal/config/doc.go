// Package config provides configuration management for the noshow analysis.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later sources
// overriding earlier ones:
//
//	1. Default values (Default)
//	2. A YAML file (noshow.yaml, config.yaml or configs/config.yaml)
//	3. A .env file in the working directory
//	4. NOSHOW_* environment variables
//
// # Environment Variables
//
// Nested sections use the section name as an infix:
//
//	NOSHOW_PATHS_INPUT_FILE=data/noshow.csv
//	NOSHOW_ANALYSIS_MAX_AGE=100
//	NOSHOW_REPORT_FORMATS=text,xlsx
//	NOSHOW_LOGGING_LEVEL=debug
//
// # Validation
//
// Load validates the result with go-playground/validator struct tags. The
// age policy requires MinAge <= MaxAge; report formats must be one of
// text, csv, json or xlsx.
package config
