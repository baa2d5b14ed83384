package distiller

// EstimateTokens converts a byte count to a token estimate, rounding up.
func EstimateTokens(bytes, bytesPerToken int) int {
	if bytes <= 0 {
		return 0
	}
	if bytesPerToken <= 0 {
		bytesPerToken = DefaultBytesPerToken
	}
	return (bytes + bytesPerToken - 1) / bytesPerToken
}

// CompressionRatio is distilled/original, or 0 when nothing was read.
func CompressionRatio(original, distilled int) float64 {
	if original == 0 {
		return 0
	}
	return float64(distilled) / float64(original)
}
