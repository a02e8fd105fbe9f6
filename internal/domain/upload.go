package domain

// UploadTokenResponse carries the short-lived signed upload credential.
// Token is a presigned PUT URL scoped to one bucket; Domain is the public
// prefix to prepend to Key once the upload completes.
type UploadTokenResponse struct {
	Token     string `json:"token"`
	Key       string `json:"key"`
	Domain    string `json:"domain"`
	ExpiresIn int    `json:"expires_in"` // seconds
}

// UploadAvatarRequest is the inline base64 avatar path. The avatar field of
// a user may hold either a URL or an inline base64 data value.
type UploadAvatarRequest struct {
	Avatar string `json:"avatar"`
}
