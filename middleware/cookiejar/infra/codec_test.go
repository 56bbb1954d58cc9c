package infra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"query-gateway/middleware/cookiejar/domain"
)

var codecNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestHeaderCodec_Parse(t *testing.T) {
	c := HeaderCodec{}

	tests := []struct {
		name   string
		header string
		want   []domain.Record
	}{
		{"absent", "", nil},
		{"blank", "   ", nil},
		{"two pairs", "a=1; b=2", []domain.Record{
			{Name: "a", Value: "1", Path: "/"},
			{Name: "b", Value: "2", Path: "/"},
		}},
		{"no space after semicolon", "a=1;b=2", []domain.Record{
			{Name: "a", Value: "1", Path: "/"},
			{Name: "b", Value: "2", Path: "/"},
		}},
		{"malformed segments skipped", "a=1; garbage; b=2; =x; c=\"q\"; bad name=3", []domain.Record{
			{Name: "a", Value: "1", Path: "/"},
			{Name: "b", Value: "2", Path: "/"},
			{Name: "c", Value: "q", Path: "/"},
		}},
		{"empty value", "a=", []domain.Record{{Name: "a", Value: "", Path: "/"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Parse(tt.header))
		})
	}
}

func TestHeaderCodec_JarHasEmptyDelta(t *testing.T) {
	jar := HeaderCodec{}.Jar("a=1; b=2")

	assert.Empty(t, jar.Delta())
	assert.Equal(t, 2, jar.Len())
}

func TestHeaderCodec_Serialize(t *testing.T) {
	c := HeaderCodec{Now: func() time.Time { return codecNow }}
	exp := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rec  domain.Record
		want string
	}{
		{
			name: "persistent httpOnly",
			rec:  domain.Record{Name: "n2", Value: "vvv", Path: "/", HTTPOnly: true, Expires: exp},
			want: "n2=vvv; Path=/; Expires=Sat, 01 Mar 2025 12:00:00 GMT; HttpOnly",
		},
		{
			name: "session cookie still emitted",
			rec:  domain.Record{Name: "second", Value: "another", Path: "/"},
			want: "second=another; Path=/",
		},
		{
			name: "secure and default path",
			rec:  domain.Record{Name: "s", Value: "1", Secure: true},
			want: "s=1; Path=/; Secure",
		},
		{
			name: "tombstone",
			rec:  domain.Record{Name: "a", Path: "/", Expires: time.Unix(0, 0)},
			want: "a=; Path=/; Expires=Thu, 01 Jan 1970 00:00:00 GMT; Max-Age=0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Serialize(tt.rec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHeaderCodec_SerializeInvalid(t *testing.T) {
	c := HeaderCodec{}

	for _, rec := range []domain.Record{
		{Name: "", Value: "x"},
		{Name: "bad name", Value: "x"},
		{Name: "a", Value: "semi;colon"},
		{Name: "a", Value: "x", Path: "/a;b"},
	} {
		_, err := c.Serialize(rec)
		assert.ErrorIs(t, err, ErrInvalidCookie, "record %+v", rec)
	}
}
