package untyped

import (
	"context"
	"net/http"

	"github.com/verge-io/go-verge-client/core"
)

// NodeStats wraps the node_stats table. Stats rows are dense numeric
// samples, so reads negotiate msgpack to cut transfer size; the server
// falls back to JSON when it cannot honor the encoding.
type NodeStats struct {
	*core.VergeResource
}

// ListPackedWithContext lists stats rows with msgpack content negotiation.
func (n *NodeStats) ListPackedWithContext(ctx context.Context, params core.Params) (core.RecordSet, error) {
	headers := []http.Header{{core.HeaderAccept: []string{core.ContentTypeMsgpack}}}
	return core.RequestWithHeaders[core.RecordSet](ctx, n, http.MethodGet, n.GetResourcePath(), params, nil, headers)
}

// ListPacked lists stats rows via msgpack using the bound REST context.
func (n *NodeStats) ListPacked(params core.Params) (core.RecordSet, error) {
	return n.ListPackedWithContext(n.Rest.GetCtx(), params)
}

// ForNodeWithContext returns the latest stats sample for one node.
func (n *NodeStats) ForNodeWithContext(ctx context.Context, nodeKey int64) (core.Record, error) {
	params := core.Params{}
	core.NewFilter().Eq("node", nodeKey).ApplyTo(params)
	return n.GetWithContext(ctx, params)
}

// ForNode returns the latest stats sample using the bound REST context.
func (n *NodeStats) ForNode(nodeKey int64) (core.Record, error) {
	return n.ForNodeWithContext(n.Rest.GetCtx(), nodeKey)
}
