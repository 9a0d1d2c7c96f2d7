package logger

import "net/url"

// MaskVal replaces sensitive values in logs.
const MaskVal = "xxxxxx"

// Mask returns a copy of vals where every value of each key is replaced by a single MaskVal.
func Mask(vals url.Values, keys ...string) url.Values {
	masked := make(url.Values, len(vals))
	for k, v := range vals {
		masked[k] = v
	}

	for _, k := range keys {
		if _, ok := masked[k]; ok {
			masked[k] = []string{MaskVal}
		}
	}

	return masked
}
