package explorer

import (
	"fmt"

	"github.com/at-ishikawa/rensou/internal/search"
)

type NoticeKind int

const (
	NoticeFound NoticeKind = iota + 1
	NoticeNotFound
	NoticeSaved
)

// Notice is the user-facing outcome of an event. Warnings are source failures that did
// not stop the search.
type Notice struct {
	Kind     NoticeKind
	Word     string
	Warnings []search.Warning
}

func (n Notice) Message() string {
	switch n.Kind {
	case NoticeFound:
		return fmt.Sprintf("「%s」の概念を検索しました！", n.Word)
	case NoticeNotFound:
		return "関連概念が見つかりませんでした。"
	case NoticeSaved:
		return fmt.Sprintf("「%s」の保存済みの概念を表示しています。", n.Word)
	default:
		return ""
	}
}

// WarningMessages formats each source failure for display.
func (n Notice) WarningMessages() []string {
	messages := make([]string, len(n.Warnings))
	for i, warning := range n.Warnings {
		messages[i] = fmt.Sprintf("%sの検索でエラーが発生しました: %v", warning.Source, warning.Err)
	}
	return messages
}
