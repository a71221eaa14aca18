package transfer

import "time"

// SetNow fija el reloj del export en tests.
func (uc *ExportUseCase) SetNow(now func() time.Time) { uc.now = now }
