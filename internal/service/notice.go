package service

type NoticeType string

const (
	NoticeWarning NoticeType = "warning"
	NoticeSuccess NoticeType = "success"
	NoticeInfo    NoticeType = "info"
)

// Notice is a non-fatal outcome shown to the user. A warning leaves the
// record's stage where it was.
type Notice struct {
	Type    NoticeType `json:"type"`
	Message string     `json:"message"`
}

func warning(message string) *Notice {
	return &Notice{Type: NoticeWarning, Message: message}
}

func success(message string) *Notice {
	return &Notice{Type: NoticeSuccess, Message: message}
}
