package storage

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"focusflow/internal/core/model"
	"gopkg.in/yaml.v3"
)

// SessionsKey is the top-level document field holding the session list.
const SessionsKey = "sessions"

// Document is the persisted data blob. Sessions live under SessionsKey;
// every other top-level field is carried through untouched.
type Document struct {
	Sessions []model.Session
	Extra    map[string]yaml.Node
}

type sessionRecord struct {
	Type      string    `yaml:"type"`
	StartedAt time.Time `yaml:"started_at"`
	Duration  int       `yaml:"duration"`
	Name      string    `yaml:"name,omitempty"`
}

// MarshalDocument encodes document as YAML with the session list first and
// the remaining fields in key order.
func MarshalDocument(document Document) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	sessions, err := encodeSessions(document.Sessions)
	if err != nil {
		return nil, err
	}
	root.Content = append(root.Content, keyNode(SessionsKey), sessions)

	for _, key := range extraKeys(document) {
		node := document.Extra[key]
		root.Content = append(root.Content, keyNode(key), &node)
	}

	serialized, err := yaml.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("marshal document yaml: %w", err)
	}
	return serialized, nil
}

// UnmarshalDocument decodes a YAML document. Empty input yields an empty
// document. Session entries with an unknown type are dropped.
func UnmarshalDocument(data []byte) (Document, error) {
	document := Document{Extra: make(map[string]yaml.Node)}
	if len(bytes.TrimSpace(data)) == 0 {
		return document, nil
	}

	var fields map[string]yaml.Node
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return document, fmt.Errorf("parse document yaml: %w", err)
	}
	for key, node := range fields {
		if key == SessionsKey {
			sessions, err := decodeSessions(&node)
			if err != nil {
				return document, err
			}
			document.Sessions = sessions
			continue
		}
		document.Extra[key] = node
	}
	return document, nil
}

func encodeSessions(sessions []model.Session) (*yaml.Node, error) {
	records := make([]sessionRecord, 0, len(sessions))
	for _, session := range sessions {
		records = append(records, sessionRecord{
			Type:      string(session.Type),
			StartedAt: session.StartedAt,
			Duration:  session.Duration,
			Name:      session.Name,
		})
	}
	node := &yaml.Node{}
	if err := node.Encode(records); err != nil {
		return nil, fmt.Errorf("encode sessions: %w", err)
	}
	return node, nil
}

func decodeSessions(node *yaml.Node) ([]model.Session, error) {
	var records []sessionRecord
	if err := node.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}
	sessions := make([]model.Session, 0, len(records))
	for _, record := range records {
		sessionType, err := model.ParseSessionType(record.Type)
		if err != nil {
			continue
		}
		session := model.NewSession(sessionType, record.StartedAt, record.Duration)
		session.Name = record.Name
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func extraKeys(document Document) []string {
	keys := make([]string, 0, len(document.Extra))
	for key := range document.Extra {
		if key == SessionsKey {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func keyNode(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}
