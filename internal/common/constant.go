package common

// SessionCookieName is the cookie that carries the opaque session id.
const SessionCookieName = "sessionId"
