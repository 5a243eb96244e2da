package session

// Callbacks delivers session lifecycle events. Nil funcs are skipped.
// Callbacks for one session fire in operation order; the manager's
// worker goroutines invoke them, so they must not call back into the
// Manager for the same session synchronously.
type Callbacks struct {
	OnOpened     func(s *Session)
	OnOpenFailed func(s *Session, status Status)

	OnStarted     func(s *Session, started any)
	OnStartFailed func(s *Session, status Status)

	OnStopped    func(s *Session, reason Reason)
	OnStopFailed func(s *Session, status Status)

	OnReconfigured      func(s *Session)
	OnReconfigureFailed func(s *Session, status Status)

	OnControleeAdded        func(s *Session, address []byte)
	OnControleeAddFailed    func(s *Session, address []byte, status Status)
	OnControleeRemoved      func(s *Session, address []byte)
	OnControleeRemoveFailed func(s *Session, address []byte, status Status)

	OnClosed func(s *Session, status Status)

	OnDataSent       func(s *Session, address []byte)
	OnDataSendFailed func(s *Session, address []byte, status Status)

	// OnRangingData delivers the raw ranging result blob of one round.
	OnRangingData func(s *Session, data []byte)

	// OnVendorNotification delivers vendor-specific UCI notifications;
	// these are device-level, not tied to a session.
	OnVendorNotification func(gid, oid uint8, payload []byte)
}

func (c *Callbacks) opened(s *Session) {
	if c.OnOpened != nil {
		c.OnOpened(s)
	}
}

func (c *Callbacks) openFailed(s *Session, st Status) {
	if c.OnOpenFailed != nil {
		c.OnOpenFailed(s, st)
	}
}

func (c *Callbacks) started(s *Session, params any) {
	if c.OnStarted != nil {
		c.OnStarted(s, params)
	}
}

func (c *Callbacks) startFailed(s *Session, st Status) {
	if c.OnStartFailed != nil {
		c.OnStartFailed(s, st)
	}
}

func (c *Callbacks) stopped(s *Session, reason Reason) {
	if c.OnStopped != nil {
		c.OnStopped(s, reason)
	}
}

func (c *Callbacks) stopFailed(s *Session, st Status) {
	if c.OnStopFailed != nil {
		c.OnStopFailed(s, st)
	}
}

func (c *Callbacks) reconfigured(s *Session) {
	if c.OnReconfigured != nil {
		c.OnReconfigured(s)
	}
}

func (c *Callbacks) reconfigureFailed(s *Session, st Status) {
	if c.OnReconfigureFailed != nil {
		c.OnReconfigureFailed(s, st)
	}
}

func (c *Callbacks) controleeAdded(s *Session, addr []byte) {
	if c.OnControleeAdded != nil {
		c.OnControleeAdded(s, addr)
	}
}

func (c *Callbacks) controleeAddFailed(s *Session, addr []byte, st Status) {
	if c.OnControleeAddFailed != nil {
		c.OnControleeAddFailed(s, addr, st)
	}
}

func (c *Callbacks) controleeRemoved(s *Session, addr []byte) {
	if c.OnControleeRemoved != nil {
		c.OnControleeRemoved(s, addr)
	}
}

func (c *Callbacks) controleeRemoveFailed(s *Session, addr []byte, st Status) {
	if c.OnControleeRemoveFailed != nil {
		c.OnControleeRemoveFailed(s, addr, st)
	}
}

func (c *Callbacks) closed(s *Session, st Status) {
	if c.OnClosed != nil {
		c.OnClosed(s, st)
	}
}

func (c *Callbacks) dataSent(s *Session, addr []byte) {
	if c.OnDataSent != nil {
		c.OnDataSent(s, addr)
	}
}

func (c *Callbacks) dataSendFailed(s *Session, addr []byte, st Status) {
	if c.OnDataSendFailed != nil {
		c.OnDataSendFailed(s, addr, st)
	}
}

func (c *Callbacks) rangingData(s *Session, data []byte) {
	if c.OnRangingData != nil {
		c.OnRangingData(s, data)
	}
}

func (c *Callbacks) vendorNotification(gid, oid uint8, payload []byte) {
	if c.OnVendorNotification != nil {
		c.OnVendorNotification(gid, oid, payload)
	}
}
