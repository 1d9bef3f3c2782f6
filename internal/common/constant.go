package common

// TempIDPrefix marks client-synthesized identifiers for records that have
// not yet been confirmed by the server. A prefixed id is replaced by the
// server-assigned one during queue drain.
const TempIDPrefix = "temp_"
