// Package retry provides exponential backoff for calls to external
// services, primarily the text extraction API client.
//
// Transient failures such as rate limits, timeouts, and truncated
// responses are retried up to Config.MaxAttempts with a growing delay
// between attempts. Failures that repeating cannot fix are wrapped with
// NonRetryable and abort the loop on the first attempt:
//
//	result, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (*Result, error) {
//	    resp, err := client.Call(ctx, payload)
//	    if isAuthError(err) {
//	        return nil, retry.NonRetryable(err)
//	    }
//	    return resp, err
//	})
//
// Context cancellation aborts both the attempt loop and any backoff
// sleep.
package retry
