package content

const sentinelMark = "☃"

// Sentinel formats the placeholder emitted for a key without value.
func Sentinel(key string) string {
	return sentinelMark + key + sentinelMark
}
