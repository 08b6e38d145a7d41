package projects

import (
	"fmt"

	"github.com/bnema/stevedore/internal/domain"
)

func serviceNotFound(name string) error {
	return fmt.Errorf("%w: %s", domain.ErrServiceNotFound, name)
}

func networkNotFound(name string) error {
	return fmt.Errorf("%w: %s", domain.ErrNetworkNotFound, name)
}
