package common

// SessionTokenHeaderName is the HTTP header used to carry the session token
// on administrative requests.
const SessionTokenHeaderName = "X-Session-Token"
