// Package errors provides structured error types for better observability
// and programmatic error handling across the provisioner.
//
// Codes follow the failure classes of a provisioning run: configuration
// errors, external tool failures, template errors, and filesystem errors.
// None of them are recovered locally; they surface to the pipeline driver,
// which stops the run.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeExternalTool,
//	    "certificate generation failed",
//	    err,
//	    map[string]interface{}{
//	        "domain": domain,
//	        "output": string(out),
//	    },
//	)
package errors
