package utils

import (
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"
)

// RetryDelay extracts the RetryInfo hint from a Google API gRPC error
func RetryDelay(err error) (time.Duration, bool) {

	st, ok := status.FromError(err)
	if !ok || st == nil {
		return 0, false
	}

	for _, detail := range st.Details() {
		if info, ok := detail.(*errdetails.RetryInfo); ok && info.RetryDelay != nil {
			return info.RetryDelay.AsDuration(), true
		}
	}

	return 0, false
}
