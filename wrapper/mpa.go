/*
NAME
  mpa.go

DESCRIPTION
  mpa.go implements the MPEG audio burst sync and wrap steps. MPEG audio
  shares the AC-3 burst layout exactly; only the Pc burst-type code
  varies, and that is already resolved per-frame by the mpa parser.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package wrapper

import (
	"github.com/ausocean/spdif/frame"
	"github.com/ausocean/spdif/spk"
)

func (w *Wrapper) syncMPA(finfo frame.Info) (spk.Speakers, error) {
	if !w.cfg.acceptRate(FormatMPA, finfo.Spk.SampleRate) {
		return spk.Speakers{}, ErrRateRejected
	}
	if finfo.Burst == frame.BurstNone {
		return spk.Speakers{}, ErrUnsupportedFormat
	}
	return spk.New(spk.SPDIF, finfo.Spk.Mask, finfo.Spk.SampleRate), nil
}

func (w *Wrapper) wrapMPA(finfo frame.Info, raw []byte) (int, error) {
	return w.wrapAC3Like(finfo, raw, finfo.Burst)
}
