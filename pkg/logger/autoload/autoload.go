// Package autoload configures the global logger from the environment when
// imported for side effects.
package autoload

import (
	configx "krishisetu/pkg/config"
	logx "krishisetu/pkg/logger"
)

func init() {
	conf := configx.MustNew[logx.Config]("LOG")
	logx.Init(*conf)
}
