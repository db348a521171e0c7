// Package validation checks flat string maps against pipe-separated rules.
//
// It is used to vet environment-derived configuration before any service is
// registered, so a bad APP_PORT or LOG_LEVEL fails at startup instead of
// inside a constructor.
//
// # Basic Usage
//
//	v := validation.Make(map[string]string{
//	    "APP_PORT":  "8000",
//	    "LOG_LEVEL": "info",
//	}, validation.Rules{
//	    "APP_PORT":  "required|integer|between:1,65535",
//	    "LOG_LEVEL": "required|in:debug,info,warn,error",
//	})
//
//	if err := v.Err(); err != nil {
//	    // err is *validation.Errors
//	}
//
// # Available Rules
//
//   - required       field must be present and non-empty
//   - integer        must parse as an int
//   - boolean        must parse with strconv.ParseBool
//   - max:n          at most n UTF-8 characters
//   - between:lo,hi  integer value within [lo, hi]
//   - in:a,b,c       value is one of the listed options
//
// Validation stops at the first failing rule of a field.
package validation
