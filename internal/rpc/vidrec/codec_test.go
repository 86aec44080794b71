package vidrec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(Codec)
	require.NotNil(t, c)
	assert.Equal(t, "json", c.Name())
}

func TestCodec_WireShape(t *testing.T) {
	b, err := jsonCodec{}.Marshal(&UserPageRequest{
		Auth: &Auth{Wechat: "wx"},
		Page: Page{PageSize: 10, PageNum: 2},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"auth":{"wechat":"wx"},"page":{"page_size":10,"page_num":2}}`, string(b))

	var out UserPageRequest
	require.NoError(t, jsonCodec{}.Unmarshal(b, &out))
	assert.Equal(t, "wx", out.Auth.Wechat)
	assert.Equal(t, int32(2), out.Page.PageNum)
}

func TestServiceDescs(t *testing.T) {
	var rec, users []string
	for _, m := range RecommenderServiceDesc.Methods {
		rec = append(rec, m.MethodName)
	}
	for _, m := range UsersServiceDesc.Methods {
		users = append(users, m.MethodName)
	}
	assert.ElementsMatch(t, []string{
		"RecommendNextVideo", "GeneralRecommendations", "RecommendVideosForUser",
		"RecommendFriends", "AverageViewRate",
	}, rec)
	assert.Len(t, users, 7)
}
