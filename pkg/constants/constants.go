package constants

const (
	AppName = "hospital_backend"
	// AppDisplayName appears in patient-facing messages.
	AppDisplayName = "Hospital"

	ConfigName   = "config"
	ConfigFormat = "yaml"

	// EnvPrefix is prepended to every environment override, e.g. HOSPITAL_DATABASE_HOST.
	EnvPrefix = "HOSPITAL"
)

const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)
