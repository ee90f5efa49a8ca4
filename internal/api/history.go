package api

import (
	"encoding/json"
	"strings"

	"github.com/satriahrh/audexa/domain/entities"
)

// ParseHistory rebuilds prior turns from the pipe-separated query parameters
// used by the chat page. The page appends the pending question and a trailing
// separator to questions, and a trailing separator to answers, so those tails
// are dropped before pairing.
func ParseHistory(questions, answers string) []entities.Turn {
	qs := dropTail(strings.Split(questions, "|"), 2)
	as := dropTail(strings.Split(answers, "|"), 1)

	n := min(len(qs), len(as))
	turns := make([]entities.Turn, 0, 2*n)
	for i := 0; i < n; i++ {
		turns = append(turns,
			entities.Turn{Role: entities.RoleUser, Content: qs[i]},
			entities.Turn{Role: entities.RoleAssistant, Content: as[i]},
		)
	}
	return turns
}

func dropTail(parts []string, n int) []string {
	if len(parts) <= n {
		return nil
	}
	return parts[:len(parts)-n]
}

func marshalWithSession(pkg entities.ResponsePackage, sessionID string) ([]byte, error) {
	raw, err := json.Marshal(pkg)
	if err != nil {
		return nil, err
	}
	if sessionID == "" {
		return raw, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	id, err := json.Marshal(sessionID)
	if err != nil {
		return nil, err
	}
	fields["session_id"] = id
	return json.Marshal(fields)
}
