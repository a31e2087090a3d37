package dashboard

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerRequiresDashboard(t *testing.T) {
	c := NewController(nil, nil)
	assert.Error(t, c.RenderPage(context.Background(), &bytes.Buffer{}))
	assert.Error(t, c.Dispatch(context.Background(), "e1", "click"))
	assert.Error(t, c.Refresh(context.Background()))
	_, err := c.Data(context.Background())
	assert.Error(t, err)
}

func TestControllerRenderPage(t *testing.T) {
	d, err := Init(context.Background(), NewBlankDocument(), Options{})
	require.NoError(t, err)
	telemetry := &recordingTelemetry{}
	c := NewController(d, telemetry)

	var buf bytes.Buffer
	require.NoError(t, c.RenderPage(context.Background(), &buf))
	assert.Contains(t, buf.String(), `class="dsb-container"`)
	assert.Contains(t, buf.String(), "ORD-1004")
	assert.Equal(t, 1, telemetry.count("dashboard.page.render"))
}

func TestControllerRefreshAndData(t *testing.T) {
	source := &countingSource{data: FallbackData()}
	d, err := Init(context.Background(), NewBlankDocument(), Options{Source: source})
	require.NoError(t, err)
	c := NewController(d, nil)

	source.data.Totals.Orders = 400
	require.NoError(t, c.Refresh(context.Background()))
	data, err := c.Data(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 400, data.Totals.Orders)
}

func TestControllerDispatch(t *testing.T) {
	d, err := Init(context.Background(), NewBlankDocument(), Options{})
	require.NoError(t, err)
	c := NewController(d, nil)

	assert.ErrorIs(t, c.Dispatch(context.Background(), "nope", "click"), ErrNoListener)
	ref, _ := attr(findAll(d.Root(), byClass("dsb-btn"))[0], RefAttr)
	assert.NoError(t, c.Dispatch(context.Background(), ref, "click"))
}
