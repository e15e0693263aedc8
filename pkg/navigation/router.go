package navigation

import "strings"

// Kind tags the active screen.
type Kind string

const (
	KindHome     Kind = "home"
	KindInfoList Kind = "info_list"
	KindContent  Kind = "content"
)

// Payload is the content reference carried by a content state. Both fields
// are set and cleared together with the state change.
type Payload struct {
	BodyRef  string `json:"body_ref,omitempty"`
	ImageRef string `json:"image_ref,omitempty"`
}

// State is the per-session view state. The zero value is treated as home.
type State struct {
	Kind    Kind    `json:"kind"`
	PageID  string  `json:"page_id,omitempty"`
	Payload Payload `json:"payload"`
}

// Target is a page selected from a list.
type Target struct {
	PageID   string
	BodyRef  string
	ImageRef string
}

type Action string

const (
	ActionReadArticles Action = "read_articles"
	ActionBack         Action = "back"
	ActionHome         Action = "home"
	ActionOpen         Action = "open"
)

func Home() State {
	return State{Kind: KindHome}
}

// Router applies navigation actions. Content ids are recognized by prefix:
// pages under the list prefix go back to the list, the rest go back home.
type Router struct {
	contentPrefixes []string
	listPrefix      string
}

func NewRouter(listPrefix string, otherPrefixes ...string) *Router {
	prefixes := append([]string{listPrefix}, otherPrefixes...)
	return &Router{
		contentPrefixes: prefixes,
		listPrefix:      listPrefix,
	}
}

// Normalize returns s when it is a valid state and home otherwise.
func (r *Router) Normalize(s State) State {
	switch s.Kind {
	case KindHome:
		return Home()
	case KindInfoList:
		return State{Kind: KindInfoList}
	case KindContent:
		if s.Payload.BodyRef == "" || !r.isContentID(s.PageID) {
			return Home()
		}
		return s
	default:
		return Home()
	}
}

// Apply runs one action against the normalized state. Actions that are not
// defined for the current state leave it unchanged.
func (r *Router) Apply(s State, action Action, target *Target) State {
	s = r.Normalize(s)

	switch action {
	case ActionHome:
		return Home()
	case ActionReadArticles:
		if s.Kind == KindHome {
			return State{Kind: KindInfoList}
		}
		return s
	case ActionBack:
		switch s.Kind {
		case KindInfoList:
			return Home()
		case KindContent:
			return State{Kind: r.BackTarget(s)}
		default:
			return s
		}
	case ActionOpen:
		if target == nil || target.BodyRef == "" || !r.isContentID(target.PageID) {
			return s
		}
		return State{
			Kind:   KindContent,
			PageID: target.PageID,
			Payload: Payload{
				BodyRef:  target.BodyRef,
				ImageRef: target.ImageRef,
			},
		}
	default:
		return s
	}
}

// BackTarget is the state the back action of a content view leads to.
func (r *Router) BackTarget(s State) Kind {
	if s.Kind == KindContent && strings.HasPrefix(s.PageID, r.listPrefix) {
		return KindInfoList
	}
	return KindHome
}

func (r *Router) isContentID(id string) bool {
	for _, p := range r.contentPrefixes {
		if id != "" && strings.HasPrefix(id, p) {
			return true
		}
	}
	return false
}

// BackLabel is the caption of the back button of s.
func (r *Router) BackLabel(s State) string {
	if r.BackTarget(s) == KindInfoList {
		return "Quay lại Danh sách tin"
	}
	return "Quay về Trang chủ"
}
