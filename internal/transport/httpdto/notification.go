package httpdto

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type MarkAllReadResponse struct {
	MarkedCount int64 `json:"marked_count"`
}
