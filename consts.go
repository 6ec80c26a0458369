package logging

const (
	// ServiceName is the DI/service locator name for the logging service.
	ServiceName = "logging"
	emptyString = ""
)

// Canonical enrichment field names. Sinks receive fully-enriched records
// keyed by these names; no enrichment logic belongs in a sink.
const (
	FieldServiceName   = "service_name"
	FieldHostname      = "hostname"
	FieldCorrelationID = "correlation_id"
)

// DefaultServiceName is used when the config does not name the service.
const DefaultServiceName = "default_service"

const (
	errMsgNilConfig     = "Logging config is nil."
	errMsgNilService    = "Logger service is nil."
	errMsgCfgNotSet     = "Logging config is not set."
	errMsgConfigInvalid = "Logging configuration is invalid."
	errMsgNoChannels    = "no logging channels enabled"
)
