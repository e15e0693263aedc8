package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	articlePrefix = "03bai_viet_"
	infoPrefix    = "trang_thong_tin_"
)

func newTestRouter() *Router {
	return NewRouter(infoPrefix, articlePrefix)
}

func TestRouter_ReadArticlesAndBack(t *testing.T) {
	r := newTestRouter()

	list := r.Apply(Home(), ActionReadArticles, nil)
	assert.Equal(t, KindInfoList, list.Kind)

	back := r.Apply(list, ActionBack, nil)
	assert.Equal(t, Home(), back)
}

func TestRouter_OpenFromHome(t *testing.T) {
	r := newTestRouter()

	s := r.Apply(Home(), ActionOpen, &Target{
		PageID:   "03bai_viet_001-ao-thun",
		BodyRef:  "03bai_viet/001-ao-thun/index.html",
		ImageRef: "03bai_viet/001-ao-thun/cover.jpg",
	})

	assert.Equal(t, KindContent, s.Kind)
	assert.Equal(t, "03bai_viet_001-ao-thun", s.PageID)
	assert.Equal(t, "03bai_viet/001-ao-thun/index.html", s.Payload.BodyRef)
	assert.Equal(t, KindHome, r.BackTarget(s))

	back := r.Apply(s, ActionBack, nil)
	assert.Equal(t, Home(), back)
	assert.Empty(t, back.Payload.BodyRef)
	assert.Empty(t, back.Payload.ImageRef)
}

func TestRouter_InfoPageGoesBackToList(t *testing.T) {
	r := newTestRouter()

	list := r.Apply(Home(), ActionReadArticles, nil)
	s := r.Apply(list, ActionOpen, &Target{
		PageID:   "trang_thong_tin_002-chinh-sach",
		BodyRef:  "trang_thong_tin/002-chinh-sach/page.html",
		ImageRef: "trang_thong_tin/002-chinh-sach/cover.png",
	})
	assert.Equal(t, KindInfoList, r.BackTarget(s))

	back := r.Apply(s, ActionBack, nil)
	assert.Equal(t, State{Kind: KindInfoList}, back)
}

func TestRouter_Normalize(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name  string
		state State
		want  State
	}{
		{name: "zero value", state: State{}, want: Home()},
		{name: "unknown kind", state: State{Kind: "checkout"}, want: Home()},
		{name: "home drops stale payload", state: State{Kind: KindHome, PageID: "x", Payload: Payload{BodyRef: "a"}}, want: Home()},
		{name: "content without body", state: State{Kind: KindContent, PageID: "03bai_viet_1"}, want: Home()},
		{name: "content with unknown prefix", state: State{Kind: KindContent, PageID: "other_1", Payload: Payload{BodyRef: "a"}}, want: Home()},
		{
			name:  "valid content",
			state: State{Kind: KindContent, PageID: "03bai_viet_1", Payload: Payload{BodyRef: "a"}},
			want:  State{Kind: KindContent, PageID: "03bai_viet_1", Payload: Payload{BodyRef: "a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Normalize(tt.state))
		})
	}
}

func TestRouter_UndefinedActionsKeepState(t *testing.T) {
	r := newTestRouter()

	list := State{Kind: KindInfoList}
	assert.Equal(t, list, r.Apply(list, ActionReadArticles, nil))
	assert.Equal(t, Home(), r.Apply(Home(), ActionBack, nil))
	assert.Equal(t, list, r.Apply(list, ActionOpen, nil))
	assert.Equal(t, list, r.Apply(list, ActionOpen, &Target{PageID: "unknown_1", BodyRef: "x"}))
	assert.Equal(t, Home(), r.Apply(list, ActionHome, nil))
}

func TestRouter_BackLabel(t *testing.T) {
	r := newTestRouter()

	info := State{Kind: KindContent, PageID: "trang_thong_tin_001", Payload: Payload{BodyRef: "a.html"}}
	article := State{Kind: KindContent, PageID: "03bai_viet_001", Payload: Payload{BodyRef: "a.html"}}

	assert.Equal(t, "Quay lại Danh sách tin", r.BackLabel(info))
	assert.Equal(t, "Quay về Trang chủ", r.BackLabel(article))
	assert.Equal(t, "Quay về Trang chủ", r.BackLabel(State{Kind: KindInfoList}))
}
