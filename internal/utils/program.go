package utils

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/misterclayt0n/ferro/internal/models"
)

// ParseProgram decodes a program definition TOML file.
func ParseProgram(data []byte) (*models.Program, error) {
	var program models.Program
	if err := toml.Unmarshal(data, &program); err != nil {
		return nil, err
	}

	if program.Name == "" {
		return nil, fmt.Errorf("program has no name")
	}
	if len(program.Days) == 0 {
		return nil, fmt.Errorf("program has no days")
	}
	if program.Version == 0 {
		program.Version = 1
	}

	return &program, nil
}
