package listing

// SlotAccountant computes remaining media capacity against fixed limits.
// All methods are pure: they never mutate the draft or touch the network, and
// any user feedback about dropped items is the caller's responsibility.
type SlotAccountant struct {
	MaxPhotos int
	MaxVideos int
}

// RemainingPhotoSlots returns how many photo slots are still open, clamped to
// zero when persisted plus staged already meet or exceed the limit.
func (a SlotAccountant) RemainingPhotoSlots(persisted, staged int) int {
	remaining := a.MaxPhotos - persisted - staged
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RemainingVideoSlots returns how many video slots are still open.
func (a SlotAccountant) RemainingVideoSlots(persisted, staged int) int {
	remaining := a.MaxVideos - persisted - staged
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AdmitPhotos admits min(len(candidates), remaining) candidates in the order
// presented and reports how many were rejected. Overflow is dropped from
// admission, not queued; partial admission still proceeds.
func AdmitPhotos(candidates []StagedUpload, remaining int) (admitted []StagedUpload, rejected int) {
	if remaining <= 0 {
		return nil, len(candidates)
	}
	if len(candidates) <= remaining {
		return candidates, 0
	}
	return candidates[:remaining], len(candidates) - remaining
}

// AdmitVideo reports whether the single candidate fits. There is no partial
// admission for a one-item slot: either it fits or the whole candidate is
// rejected.
func AdmitVideo(remaining int) bool {
	return remaining >= 1
}
