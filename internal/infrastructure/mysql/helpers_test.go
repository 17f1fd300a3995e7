package mysql

import "supplyhub/internal/config"

func testDBConfig() config.DatabaseConfig {
	return config.DatabaseConfig{User: "u", Password: "p", Host: "db", Port: 3306, Name: "supplyhub"}
}
