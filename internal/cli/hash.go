package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gradebook/internal/common"
	"github.com/dmitrijs2005/gradebook/internal/cryptox"
)

// Hash prints the legacy SHA-256 hex digest of an entered password, the
// value stored in users files written with the sha256 driver.
func (a *App) Hash(ctx context.Context) error {
	password, err := getPassword(a.reader, "Password to hash", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	digest, err := cryptox.HashPassword(password)
	if err != nil {
		a.report(ctx, "hash", err)
		return err
	}
	fmt.Fprintln(a.out, digest)
	return nil
}
