package ctxutil

import "context"

type requestDataKey struct{}

// RequestData carries the identity the Identity Provider verified for this request.
// LearnerID is empty for anonymous requests.
type RequestData struct {
	LearnerID string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// LearnerID returns the verified learner id on ctx, or "" when anonymous.
func LearnerID(ctx context.Context) string {
	rd := GetRequestData(ctx)
	if rd == nil {
		return ""
	}
	return rd.LearnerID
}
