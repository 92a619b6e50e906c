package entity

// NoticeKind тип всплывающего уведомления
type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeWarning NoticeKind = "warning"
)

// Notice короткое уведомление, которое исчезает через несколько секунд.
type Notice struct {
	Text string
	Kind NoticeKind
}
