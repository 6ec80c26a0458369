package correlation

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// RandomID returns a fresh random correlation identifier: a 128-bit value in
// canonical UUID form. It never fails; if the entropy source is unavailable
// it falls back to a clock-derived pseudorandom identifier.
func RandomID() string {
	id, err := uuid.NewRandom()
	if err == nil {
		return id.String()
	}
	return fallbackID()
}

// fallbackID is only reached when crypto/rand is broken. The "E:" prefix
// marks these identifiers as non-random so they can be spotted in logs.
func fallbackID() string {
	return "E:" + strconv.FormatInt(time.Now().UnixNano(), 36)
}

// ResolveID returns the identifier to use for an inbound request: a non-empty
// caller-supplied value is adopted verbatim, anything else yields a freshly
// generated identifier. Callers may be untrusted upstream services; no format
// validation is applied beyond non-emptiness.
func ResolveID(supplied string) string {
	if supplied != "" {
		idsAdopted.Inc()
		return supplied
	}
	idsGenerated.Inc()
	return RandomID()
}
