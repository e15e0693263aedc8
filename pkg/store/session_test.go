package store

import (
	"testing"

	"ai-storefront/internal/entity"
	"ai-storefront/pkg/navigation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Notices(t *testing.T) {
	s := NewSession("abc")
	assert.Equal(t, navigation.KindHome, s.View.Kind)

	s.AddNotice(NoticeWarning, "ảnh không hợp lệ")
	s.AddNotice(NoticeError, "lỗi")

	notices := s.TakeNotices()
	require.Len(t, notices, 2)
	assert.Equal(t, NoticeWarning, notices[0].Level)
	assert.Empty(t, s.TakeNotices())
}

func TestSession_FindTurnAndReset(t *testing.T) {
	s := NewSession("abc")
	turn := entity.NewTurn(entity.RoleUser, "xin chào", nil)
	s.Conversation.Turns = append(s.Conversation.Turns, turn)
	s.Conversation.PendingImage = &entity.Attachment{MIMEType: "image/png", Data: []byte{1}}
	s.View = navigation.State{Kind: navigation.KindInfoList}

	found, ok := s.FindTurn(turn.Id.String())
	require.True(t, ok)
	assert.Equal(t, "xin chào", found.Text)

	_, ok = s.FindTurn("missing")
	assert.False(t, ok)

	s.Reset()
	assert.Equal(t, "abc", s.ID)
	assert.Empty(t, s.Conversation.Turns)
	assert.Nil(t, s.Conversation.PendingImage)
	assert.Equal(t, navigation.KindHome, s.View.Kind)
}
