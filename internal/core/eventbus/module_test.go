package eventbus

import (
	"testing"

	pkgif "github.com/dep2p/go-busmsg/pkg/interfaces"
	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// TestModule_Load 测试 Fx 模块加载
func TestModule_Load(t *testing.T) {
	var eb pkgif.EventBus
	var bus *Bus

	app := fxtest.New(t,
		Module(),
		fx.Populate(&eb, &bus),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.NotNil(t, eb)
	assert.Same(t, bus, eb.(*Bus))
}
