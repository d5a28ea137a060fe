package common

// DevEndpoint is the well-known local trust service used in development builds.
const DevEndpoint = "http://localhost:3030"
