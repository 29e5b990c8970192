package server

type HttpConfig struct {
	Host string `conf:"host" validate:"required"`
	Port int    `conf:"port" validate:"gte=0,lte=65535"`
	H2c  bool   `conf:"h2c"`
}
