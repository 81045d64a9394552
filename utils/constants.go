package utils

// SuggestionCachePrefix is the prefix used for Redis suggestion cache keys.
const SuggestionCachePrefix = "meetsync:suggestions:"
