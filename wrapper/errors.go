/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the sentinel errors the Wrapper records through
  LastError. None of them are ever returned or panicked from Process --
  a frame whose header is rejected makes Process report ok=false, and a
  frame that parses but cannot be carried as a burst causes a fall back to
  passthrough, per the Wrapper's error-tolerant contract.

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

import "github.com/pkg/errors"

var (
	// ErrHeaderInvalid means FirstFrame rejected the frame outright.
	ErrHeaderInvalid = errors.New("wrapper: header invalid")

	// ErrUnsupportedFormat means the input Speakers format has no known
	// parser and no passthrough path either.
	ErrUnsupportedFormat = errors.New("wrapper: unsupported format")

	// ErrEncapsulationFailed means a frame was parsed successfully but
	// could not be fit into a burst (oversized, or no DTS mode worked),
	// causing a fall back to passthrough.
	ErrEncapsulationFailed = errors.New("wrapper: encapsulation failed")

	// ErrRateRejected means CheckRate rejected the stream's sample rate.
	ErrRateRejected = errors.New("wrapper: sample rate rejected")
)
