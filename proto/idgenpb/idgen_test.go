package idgenpb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"

	"github.com/zhukov-alex/idgen/proto/idgenpb"
)

// bytes a peer with `message IdResponse { string id = 1; }` would send
func idFieldBytes(id string) []byte {
	b := protowire.AppendTag(nil, 1, protowire.BytesType)
	return protowire.AppendString(b, id)
}

func TestIdResponse_WireCompatibleWithIdField(t *testing.T) {
	const id = "000000000000000042"

	var resp idgenpb.IdResponse
	require.NoError(t, proto.Unmarshal(idFieldBytes(id), &resp))
	assert.Equal(t, id, resp.GetValue())

	out, err := proto.Marshal(&idgenpb.IdResponse{Value: id})
	require.NoError(t, err)
	assert.Equal(t, idFieldBytes(id), out)
}

func TestIdResponse_EmptyIdEncodesNothing(t *testing.T) {
	out, err := proto.Marshal(&idgenpb.IdResponse{})
	require.NoError(t, err)
	assert.Empty(t, out)
}
