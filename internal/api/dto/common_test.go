package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserReference_MarshalForms(t *testing.T) {
	bare, err := json.Marshal(UserReference{ID: "abc"})
	require.NoError(t, err)
	assert.JSONEq(t, `"abc"`, string(bare))

	populated, err := json.Marshal(UserReference{ID: "abc", UserName: "Ann", Email: "a@b.io", Populated: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"abc","userName":"Ann","email":"a@b.io"}`, string(populated))

	dangling, err := json.Marshal(UserReference{ID: "abc", Populated: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"abc"}`, string(dangling))
}

func TestUserReference_UnmarshalForms(t *testing.T) {
	var ref UserReference
	require.NoError(t, json.Unmarshal([]byte(`"abc"`), &ref))
	assert.Equal(t, UserReference{ID: "abc"}, ref)

	require.NoError(t, json.Unmarshal([]byte(`{"_id":"abc","userName":"Ann"}`), &ref))
	assert.Equal(t, UserReference{ID: "abc", UserName: "Ann", Populated: true}, ref)

	require.NoError(t, json.Unmarshal([]byte(`null`), &ref))
	assert.Equal(t, UserReference{}, ref)
}

func TestTaskReference_RoundTrip(t *testing.T) {
	var c CommentResponse
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"c1","task_id":{"_id":"t1","title":"T"},"author_id":"u1","message":"m"}`), &c))
	assert.Equal(t, TaskReference{ID: "t1", Title: "T", Populated: true}, c.TaskID)
	assert.Equal(t, UserReference{ID: "u1"}, c.AuthorID)
}

func TestFlexibleTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"rfc3339", `"2030-05-06T07:08:09Z"`, time.Date(2030, 5, 6, 7, 8, 9, 0, time.UTC), false},
		{"offset", `"2030-05-06T09:08:09+02:00"`, time.Date(2030, 5, 6, 7, 8, 9, 0, time.UTC), false},
		{"date", `"2030-05-06"`, time.Date(2030, 5, 6, 0, 0, 0, 0, time.UTC), false},
		{"datetime-local", `"2030-05-06T07:08"`, time.Date(2030, 5, 6, 7, 8, 0, 0, time.UTC), false},
		{"empty", `""`, time.Time{}, false},
		{"null", `null`, time.Time{}, false},
		{"garbage", `"tomorrow"`, time.Time{}, true},
		{"number", `12`, time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ft FlexibleTime
			err := json.Unmarshal([]byte(tt.input), &ft)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(ft.Time), "got %v", ft.Time)
		})
	}

	var absent *FlexibleTime
	assert.Nil(t, absent.Ptr())
	assert.Nil(t, (&FlexibleTime{}).Ptr())
}
