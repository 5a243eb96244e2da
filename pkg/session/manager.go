// Package session manages the lifecycle of UWB ranging sessions on top
// of the UCI subsystem: open, configure, start, stop, reconfigure and
// teardown, with per-session ordering and lifecycle callbacks.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pion/logging"

	"github.com/openuwb/uwb/pkg/ccc"
	"github.com/openuwb/uwb/pkg/fira"
	"github.com/openuwb/uwb/pkg/params"
	"github.com/openuwb/uwb/pkg/tlv"
)

// DefaultMaxSessions is the default concurrent session limit.
const DefaultMaxSessions = 8

// DefaultOperationTimeout bounds a single native call.
const DefaultOperationTimeout = 3 * time.Second

// Errors returned for immediate request rejection. Outcomes of accepted
// requests arrive through Callbacks instead.
var (
	ErrSessionExists  = errors.New("session: session already exists")
	ErrMaxSessions    = errors.New("session: max sessions exceeded")
	ErrUnknownSession = errors.New("session: unknown session handle")
)

// Config configures the session manager.
type Config struct {
	// MaxSessions limits the number of concurrent sessions.
	// Default: DefaultMaxSessions.
	MaxSessions int

	// Device carries the per-device parameter switches.
	Device params.DeviceConfig

	// UwbsVersion is the FiRa protocol version of the UWB subsystem,
	// used for version-gated configuration records.
	UwbsVersion fira.ProtocolVersion

	// OperationTimeout bounds each native call.
	// Default: DefaultOperationTimeout.
	OperationTimeout time.Duration

	// LoggerFactory creates the manager's logger. Defaults to the pion
	// default factory.
	LoggerFactory logging.LoggerFactory

	// Metrics is optional; nil disables metrics.
	Metrics *Metrics
}

// Manager owns the session table and drives session lifecycles against
// the native interface. Each session's operations run on that session's
// worker goroutine.
type Manager struct {
	native  NativeInterface
	cb      Callbacks
	cfg     Config
	metrics *Metrics
	log     logging.LeveledLogger

	mu       sync.RWMutex
	sessions map[Handle]*Session
}

// NewManager creates a session manager.
func NewManager(native NativeInterface, cb Callbacks, cfg Config) *Manager {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = DefaultOperationTimeout
	}
	if cfg.LoggerFactory == nil {
		cfg.LoggerFactory = logging.NewDefaultLoggerFactory()
	}
	return &Manager{
		native:   native,
		cb:       cb,
		cfg:      cfg,
		metrics:  cfg.Metrics,
		log:      cfg.LoggerFactory.NewLogger("session"),
		sessions: make(map[Handle]*Session),
	}
}

func sessionTypeOf(p params.Protocol) Type {
	switch p {
	case params.ProtocolCcc:
		return TypeCcc
	case params.ProtocolRadar:
		return TypeRadar
	default:
		return TypeFiraRanging
	}
}

// OpenSession registers a session and opens it on the subsystem. The
// request is rejected immediately on a duplicate handle or session ID,
// or when the session table is full; the open outcome arrives through
// OnOpened/OnOpenFailed.
func (m *Manager) OpenSession(handle Handle, sessionID uint32, protocol params.Protocol, p any) error {
	enc, err := params.NewEncoder(protocol, m.cfg.Device)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if _, ok := m.sessions[handle]; ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: handle %d", ErrSessionExists, handle)
	}
	for _, s := range m.sessions {
		if s.id == sessionID {
			m.mu.Unlock()
			return fmt.Errorf("%w: session ID %d", ErrSessionExists, sessionID)
		}
	}
	if len(m.sessions) >= m.cfg.MaxSessions {
		m.mu.Unlock()
		return fmt.Errorf("%w: limit %d", ErrMaxSessions, m.cfg.MaxSessions)
	}
	s := newSession(handle, sessionID, protocol, p)
	m.sessions[handle] = s
	m.mu.Unlock()

	m.log.Infof("open session %d (%s)", sessionID, protocol)
	go s.run()
	s.enqueue(func() { m.handleOpen(s, enc) })
	return nil
}

// StartRanging starts the ranging rounds of an idle session. For CCC
// sessions, startParams may be *ccc.StartRangingParams to override the
// timing parameters from the open.
func (m *Manager) StartRanging(handle Handle, startParams any) error {
	s, err := m.session(handle)
	if err != nil {
		return err
	}
	s.enqueue(func() {
		switch s.State() {
		case StateIdle:
			m.handleStart(s, startParams)
		case StateActive:
			m.log.Infof("session %d is already ranging", s.id)
			m.cb.startFailed(s, StatusRejected)
		default:
			m.log.Infof("session %d cannot start ranging in state %s", s.id, s.State())
			m.metrics.startFailed()
			m.cb.startFailed(s, StatusFailed)
		}
	})
	return nil
}

// StopRanging halts the ranging rounds of an active session. Stopping
// an already idle session reports success.
func (m *Manager) StopRanging(handle Handle) error {
	s, err := m.session(handle)
	if err != nil {
		return err
	}
	s.enqueue(func() {
		switch s.State() {
		case StateActive:
			m.handleStop(s)
		case StateIdle:
			m.cb.stopped(s, ReasonStateChangeWithSessionManagementCommands)
		default:
			m.cb.stopFailed(s, StatusRejected)
		}
	})
	return nil
}

// Reconfigure applies a FiRa session reconfiguration. When Action is
// set it updates the controller's multicast list; otherwise it applies
// the configuration records.
func (m *Manager) Reconfigure(handle Handle, p *fira.RangingReconfigureParams) error {
	s, err := m.session(handle)
	if err != nil {
		return err
	}
	s.enqueue(func() { m.handleReconfigure(s, p) })
	return nil
}

// AddControlee adds controlees to a controller session.
func (m *Manager) AddControlee(handle Handle, p *fira.ControleeParams) error {
	action := fira.ActionAddControlee
	switch {
	case len(p.SubSessionKeyList) > 0 && len(p.SubSessionKeyList[0]) == 32:
		action = fira.ActionAddControleeKey32Bytes
	case len(p.SubSessionKeyList) > 0:
		action = fira.ActionAddControleeKey16Bytes
	}
	return m.Reconfigure(handle, p.Reconfigure(action))
}

// RemoveControlee removes controlees from a controller session.
func (m *Manager) RemoveControlee(handle Handle, p *fira.ControleeParams) error {
	return m.Reconfigure(handle, p.Reconfigure(fira.ActionDeleteControlee))
}

// SendData queues an in-band data transfer on an active session.
func (m *Manager) SendData(handle Handle, address []byte, data []byte) error {
	s, err := m.session(handle)
	if err != nil {
		return err
	}
	s.enqueue(func() {
		if s.State() != StateActive {
			m.cb.dataSendFailed(s, address, StatusRejected)
			return
		}
		ctx, cancel := m.opCtx()
		st, err := m.native.SendData(ctx, s.id, address, data)
		cancel()
		if err != nil {
			m.log.Errorf("session %d send data: %v", s.id, err)
			st = StatusFailed
		}
		if st != StatusOk {
			m.cb.dataSendFailed(s, address, st)
			return
		}
		m.cb.dataSent(s, address)
	})
	return nil
}

// QueryMaxDataSize reports the largest in-band payload the session can
// carry.
func (m *Manager) QueryMaxDataSize(handle Handle) (uint16, error) {
	s, err := m.session(handle)
	if err != nil {
		return 0, err
	}
	ctx, cancel := m.opCtx()
	defer cancel()
	return m.native.QueryMaxDataSize(ctx, s.id)
}

// DeinitSession tears a session down. Unknown handles are ignored, so
// teardown is idempotent.
func (m *Manager) DeinitSession(handle Handle) error {
	s, err := m.session(handle)
	if err != nil {
		return nil
	}
	s.enqueue(func() { m.handleDeinit(s) })
	return nil
}

// StopAllRanging halts the ranging rounds of every active session.
func (m *Manager) StopAllRanging() {
	for _, s := range m.snapshot() {
		s := s
		if s.State() != StateActive {
			continue
		}
		s.enqueue(func() {
			if s.State() == StateActive {
				m.handleStop(s)
			}
		})
	}
}

// DeinitAll tears down every session.
func (m *Manager) DeinitAll() {
	for _, s := range m.snapshot() {
		s := s
		s.enqueue(func() { m.handleDeinit(s) })
	}
}

// NotifySessionStatus feeds a session status notification from the
// subsystem into the manager. Spontaneous stops and teardowns surface
// through the callbacks.
func (m *Manager) NotifySessionStatus(sessionID uint32, state State, reason Reason) {
	s := m.sessionByID(sessionID)
	if s == nil {
		m.log.Debugf("state change for unknown session %d", sessionID)
		return
	}
	s.enqueue(func() {
		prev := s.setState(state)
		m.log.Debugf("session %d state %s -> %s (%s)", sessionID, prev, state, reason)
		switch {
		case state == StateIdle && prev == StateActive &&
			reason != ReasonStateChangeWithSessionManagementCommands:
			m.metrics.rangingStopped()
			m.cb.stopped(s, reason)
		case state == StateDeinit:
			// A local deinit queued ahead of this notification already
			// tore the session down; the terminal callback fires once.
			if prev == StateDeinit {
				return
			}
			if prev == StateActive {
				m.metrics.rangingStopped()
			}
			m.cb.closed(s, StatusOk)
			m.metrics.sessionClosed()
			m.remove(s)
		}
	})
}

// NotifyRangingData feeds a ranging result notification into the
// manager. The blob is forwarded on the session's queue so it cannot
// interleave with lifecycle callbacks for the same session.
func (m *Manager) NotifyRangingData(sessionID uint32, data []byte) {
	s := m.sessionByID(sessionID)
	if s == nil {
		m.log.Debugf("ranging data for unknown session %d", sessionID)
		return
	}
	s.enqueue(func() { m.cb.rangingData(s, data) })
}

// NotifyVendor feeds a vendor-specific UCI notification into the
// manager. Vendor notifications are device-level and are delivered on
// the caller's goroutine.
func (m *Manager) NotifyVendor(gid, oid uint8, payload []byte) {
	m.cb.vendorNotification(gid, oid, payload)
}

// Session returns the session for a handle.
func (m *Manager) Session(handle Handle) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[handle]
	return s, ok
}

// Count returns the number of registered sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ActiveCount returns the number of sessions currently ranging.
func (m *Manager) ActiveCount() int {
	n := 0
	for _, s := range m.snapshot() {
		if s.State() == StateActive {
			n++
		}
	}
	return n
}

func (m *Manager) session(handle Handle) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[handle]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSession, handle)
	}
	return s, nil
}

func (m *Manager) sessionByID(sessionID uint32) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if s.id == sessionID {
			return s
		}
	}
	return nil
}

func (m *Manager) snapshot() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

func (m *Manager) remove(s *Session) {
	m.mu.Lock()
	delete(m.sessions, s.handle)
	m.mu.Unlock()
	s.stop()
}

func (m *Manager) opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.cfg.OperationTimeout)
}

func (m *Manager) handleOpen(s *Session, enc params.Encoder) {
	st := m.initAndConfigure(s, enc)
	if st != StatusOk {
		m.log.Warnf("session %d open failed: %s", s.id, st)
		m.cb.openFailed(s, st)
		ctx, cancel := m.opCtx()
		_, _ = m.native.DeinitSession(ctx, s.id)
		cancel()
		m.remove(s)
		return
	}
	s.setState(StateIdle)
	m.metrics.sessionOpened(s.protocol)
	m.cb.opened(s)
}

func (m *Manager) initAndConfigure(s *Session, enc params.Encoder) Status {
	ctx, cancel := m.opCtx()
	defer cancel()

	st, err := m.native.InitSession(ctx, s.id, sessionTypeOf(s.protocol))
	if err != nil {
		m.log.Errorf("session %d init: %v", s.id, err)
		return StatusFailed
	}
	if st != StatusOk {
		return st
	}
	s.setState(StateInit)

	cfg, err := enc.Encode(s.Params(), m.cfg.UwbsVersion)
	if err != nil {
		m.log.Errorf("session %d config encode: %v", s.id, err)
		return StatusInvalidParam
	}
	st, err = m.native.SetAppConfig(ctx, s.id, cfg)
	if err != nil {
		m.log.Errorf("session %d set config: %v", s.id, err)
		return StatusFailed
	}
	return st
}

func (m *Manager) handleStart(s *Session, startParams any) {
	ctx, cancel := m.opCtx()
	defer cancel()

	// CCC sessions re-apply their configuration on every start, folding
	// in any start-time overrides.
	if s.protocol == params.ProtocolCcc {
		if sp, ok := startParams.(*ccc.StartRangingParams); ok && sp != nil {
			if open, ok := s.Params().(*ccc.OpenRangingParams); ok {
				updated := *open
				sp.Apply(&updated)
				s.setParams(&updated)
			}
		}
		if st := m.applyConfig(ctx, s); st != StatusOk {
			m.metrics.startFailed()
			m.cb.startFailed(s, st)
			return
		}
	}

	st, err := m.native.StartRanging(ctx, s.id)
	if err != nil {
		m.log.Errorf("session %d start: %v", s.id, err)
		st = StatusFailed
	}
	if st != StatusOk {
		m.metrics.startFailed()
		m.cb.startFailed(s, st)
		return
	}
	s.setState(StateActive)
	m.metrics.rangingStarted()
	m.cb.started(s, m.startedParams(ctx, s))
}

// startedParams reads back the subsystem-chosen session config after a
// CCC start. FiRa sessions report nil.
func (m *Manager) startedParams(ctx context.Context, s *Session) any {
	if s.protocol != params.ProtocolCcc {
		return nil
	}
	raw, n, err := m.native.AppConfig(ctx, s.id)
	if err != nil {
		m.log.Errorf("session %d read config: %v", s.id, err)
		return nil
	}
	tlvs := tlv.NewDecoderBuffer(raw, n)
	if err := tlvs.Parse(); err != nil {
		m.log.Errorf("session %d parse config: %v", s.id, err)
		return nil
	}
	started, err := params.NewCccDecoder(m.cfg.Device).RangingStarted(tlvs)
	if err != nil {
		m.log.Errorf("session %d decode ranging started: %v", s.id, err)
		return nil
	}
	return started
}

func (m *Manager) applyConfig(ctx context.Context, s *Session) Status {
	enc, err := params.NewEncoder(s.protocol, m.cfg.Device)
	if err != nil {
		return StatusInvalidParam
	}
	cfg, err := enc.Encode(s.Params(), m.cfg.UwbsVersion)
	if err != nil {
		m.log.Errorf("session %d config encode: %v", s.id, err)
		return StatusInvalidParam
	}
	st, err := m.native.SetAppConfig(ctx, s.id, cfg)
	if err != nil {
		m.log.Errorf("session %d set config: %v", s.id, err)
		return StatusFailed
	}
	return st
}

func (m *Manager) handleStop(s *Session) {
	ctx, cancel := m.opCtx()
	defer cancel()

	st, err := m.native.StopRanging(ctx, s.id)
	if err != nil {
		m.log.Errorf("session %d stop: %v", s.id, err)
		st = StatusFailed
	}
	if st != StatusOk {
		m.cb.stopFailed(s, st)
		return
	}
	s.setState(StateIdle)
	m.metrics.rangingStopped()
	m.cb.stopped(s, ReasonStateChangeWithSessionManagementCommands)
}

func (m *Manager) handleReconfigure(s *Session, p *fira.RangingReconfigureParams) {
	if p == nil || p.IsEmpty() {
		m.cb.reconfigured(s)
		return
	}
	if p.Action != nil {
		m.handleMulticastUpdate(s, p)
		return
	}

	ctx, cancel := m.opCtx()
	defer cancel()
	enc, err := params.NewEncoder(s.protocol, m.cfg.Device)
	if err != nil {
		m.cb.reconfigureFailed(s, StatusInvalidParam)
		return
	}
	cfg, err := enc.Encode(p, m.cfg.UwbsVersion)
	if err != nil {
		m.log.Errorf("session %d reconfigure encode: %v", s.id, err)
		m.cb.reconfigureFailed(s, StatusInvalidParam)
		return
	}
	st, err := m.native.SetAppConfig(ctx, s.id, cfg)
	if err != nil {
		m.log.Errorf("session %d reconfigure: %v", s.id, err)
		st = StatusFailed
	}
	if st != StatusOk {
		m.cb.reconfigureFailed(s, st)
		return
	}
	m.cb.reconfigured(s)
}

func (m *Manager) handleMulticastUpdate(s *Session, p *fira.RangingReconfigureParams) {
	action := *p.Action
	if len(p.AddressList) == 0 {
		m.log.Errorf("session %d multicast update without addresses", s.id)
		m.cb.reconfigureFailed(s, StatusInvalidParam)
		return
	}
	if action.IsAdd() && s.controleeCount()+len(p.AddressList) > fira.MaxControlees {
		for _, addr := range p.AddressList {
			m.cb.controleeAddFailed(s, addr, StatusMulticastListFull)
		}
		m.cb.reconfigureFailed(s, StatusMulticastListFull)
		return
	}
	if action == fira.ActionDeleteControlee {
		for _, addr := range p.AddressList {
			if !s.hasControlee(addr) {
				m.cb.controleeRemoveFailed(s, addr, StatusAddressNotFound)
				m.cb.reconfigureFailed(s, StatusAddressNotFound)
				return
			}
		}
	}

	subSessionIDs := p.SubSessionIDList
	if len(subSessionIDs) == 0 {
		subSessionIDs = make([]uint32, len(p.AddressList))
	}

	ctx, cancel := m.opCtx()
	defer cancel()
	statuses, err := m.native.MulticastListUpdate(ctx, s.id, action,
		p.AddressList, subSessionIDs, p.SubSessionKeyList)
	if err != nil || len(statuses) != len(p.AddressList) {
		m.log.Errorf("session %d multicast update: %v", s.id, err)
		m.cb.reconfigureFailed(s, StatusFailed)
		return
	}

	overall := StatusOk
	for i, st := range statuses {
		addr := p.AddressList[i]
		if st != StatusOk {
			overall = st
			if action.IsAdd() {
				m.cb.controleeAddFailed(s, addr, st)
			} else {
				m.cb.controleeRemoveFailed(s, addr, st)
			}
			continue
		}
		if action.IsAdd() {
			s.addControlee(addr)
			m.cb.controleeAdded(s, addr)
		} else {
			s.removeControlee(addr)
			m.cb.controleeRemoved(s, addr)
		}
	}
	if overall != StatusOk {
		m.cb.reconfigureFailed(s, overall)
		return
	}
	m.cb.reconfigured(s)
}

func (m *Manager) handleDeinit(s *Session) {
	// The subsystem may have reported its own teardown while this
	// request was queued; the session is already closed then.
	if s.State() == StateDeinit {
		return
	}

	ctx, cancel := m.opCtx()
	defer cancel()

	st, err := m.native.DeinitSession(ctx, s.id)
	if err != nil {
		m.log.Errorf("session %d deinit: %v", s.id, err)
		st = StatusFailed
	}
	if prev := s.setState(StateDeinit); prev == StateActive {
		m.metrics.rangingStopped()
	}
	m.cb.closed(s, st)
	m.metrics.sessionClosed()
	m.remove(s)
}
