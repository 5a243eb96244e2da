package secure

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pion/logging"

	"github.com/openuwb/uwb/pkg/secure/iso7816"
)

// DefaultOperationTimeout bounds one secure element exchange.
const DefaultOperationTimeout = 3 * time.Second

// Errors returned by Channel entry points.
var (
	ErrChannelAbnormal = errors.New("secure: channel in abnormal state")
	ErrNotInitiator    = errors.New("secure: tunnel is initiator-only")
)

// Role is the device's part in the secure channel setup. The initiator
// drives the setup; the responder reacts to the remote device.
type Role uint8

const (
	RoleInitiator Role = iota
	RoleResponder
)

// State of the secure channel setup.
type State uint8

const (
	StateUninitialized State = iota
	StateInitialized
	StateChannelOpened
	StateAdfSelected
	StateEstablished
	StateTerminated
	StateAbnormal
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateChannelOpened:
		return "channel opened"
	case StateAdfSelected:
		return "adf selected"
	case StateEstablished:
		return "established"
	case StateTerminated:
		return "terminated"
	case StateAbnormal:
		return "abnormal"
	default:
		return "unknown"
	}
}

// SetupError names the setup step that failed.
type SetupError uint8

const (
	SetupErrorInit SetupError = iota
	SetupErrorSelectAdf
	SetupErrorSwapInAdf
	SetupErrorInitiateTransaction
	SetupErrorOpenSeChannel
	SetupErrorDispatch
)

// String returns the failed step's name.
func (e SetupError) String() string {
	switch e {
	case SetupErrorInit:
		return "init"
	case SetupErrorSelectAdf:
		return "select adf"
	case SetupErrorSwapInAdf:
		return "swap in adf"
	case SetupErrorInitiateTransaction:
		return "initiate transaction"
	case SetupErrorOpenSeChannel:
		return "open se channel"
	case SetupErrorDispatch:
		return "dispatch"
	default:
		return "unknown"
	}
}

// SessionInfo carries the profile data the channel setup needs.
type SessionInfo struct {
	// AdfOid is the OID of the locally provisioned ADF.
	AdfOid []byte

	// PeerAdfOids are the selectable ADF OIDs of the peer device.
	PeerAdfOids [][]byte

	// SecureBlob holds the encrypted ADF for dynamic-slot profiles; nil
	// when the ADF is statically provisioned.
	SecureBlob []byte

	// ControleeInfo accompanies a dynamic-slot swap-in.
	ControleeInfo []byte

	// Multicast marks a shared session; SharedSessionID is the primary
	// UWB session ID in that case.
	Multicast       bool
	SharedSessionID uint32
}

// Callbacks delivers channel events. Nil funcs are skipped. The
// channel's worker goroutine invokes them.
type Callbacks struct {
	OnEstablished func(defaultSessionID uint32, hasSessionID bool)
	OnSetupError  func(err SetupError)

	// OnDispatchResponse delivers dispatch results once established.
	OnDispatchResponse func(resp *DispatchResponse)
	OnDispatchFailure  func()

	OnRdsAvailable           func(sessionID uint32, arbitraryData []byte)
	OnControleeInfoAvailable func(controleeInfo []byte)

	OnTerminated      func(withError bool)
	OnSeChannelClosed func(withError bool)
}

func (c *Callbacks) established(id uint32, ok bool) {
	if c.OnEstablished != nil {
		c.OnEstablished(id, ok)
	}
}

func (c *Callbacks) setupError(e SetupError) {
	if c.OnSetupError != nil {
		c.OnSetupError(e)
	}
}

func (c *Callbacks) dispatchResponse(r *DispatchResponse) {
	if c.OnDispatchResponse != nil {
		c.OnDispatchResponse(r)
	}
}

func (c *Callbacks) dispatchFailure() {
	if c.OnDispatchFailure != nil {
		c.OnDispatchFailure()
	}
}

func (c *Callbacks) rdsAvailable(id uint32, data []byte) {
	if c.OnRdsAvailable != nil {
		c.OnRdsAvailable(id, data)
	}
}

func (c *Callbacks) controleeInfoAvailable(info []byte) {
	if c.OnControleeInfoAvailable != nil {
		c.OnControleeInfoAvailable(info)
	}
}

func (c *Callbacks) terminated(withError bool) {
	if c.OnTerminated != nil {
		c.OnTerminated(withError)
	}
}

func (c *Callbacks) seChannelClosed(withError bool) {
	if c.OnSeChannelClosed != nil {
		c.OnSeChannelClosed(withError)
	}
}

// Config configures a secure channel.
type Config struct {
	// OperationTimeout bounds each secure element exchange.
	// Default: DefaultOperationTimeout.
	OperationTimeout time.Duration

	// LoggerFactory creates the channel's logger. Defaults to the pion
	// default factory.
	LoggerFactory logging.LoggerFactory
}

// Channel sets up the CSML secure channel and tunnels data once it is
// established. All state transitions run on the channel's worker
// goroutine, one applet exchange per transition.
type Channel struct {
	se        SecureElement
	transport Transport
	role      Role
	info      SessionInfo
	cfg       Config
	cb        Callbacks
	log       logging.LeveledLogger

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	stopped bool
	running bool
	state   State
	slotID  []byte
}

// NewChannel creates a secure channel over the secure element and the
// out-of-band transport.
func NewChannel(se SecureElement, transport Transport, role Role, info SessionInfo, cfg Config) *Channel {
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = DefaultOperationTimeout
	}
	if cfg.LoggerFactory == nil {
		cfg.LoggerFactory = logging.NewDefaultLoggerFactory()
	}
	c := &Channel{
		se:        se,
		transport: transport,
		role:      role,
		info:      info,
		cfg:       cfg,
		log:       cfg.LoggerFactory.NewLogger("secure"),
		state:     StateUninitialized,
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Init starts the channel setup. The initiator proceeds to open the
// applet channel and initiate the transaction; the responder waits for
// the remote device. Outcomes arrive through the callbacks.
func (c *Channel) Init(cb Callbacks) error {
	c.mu.Lock()
	if c.state == StateAbnormal {
		c.mu.Unlock()
		return ErrChannelAbnormal
	}
	if !c.running {
		c.running = true
		go c.run()
	}
	c.mu.Unlock()

	c.cb = cb
	c.transport.RegisterReceiver(func(data []byte) {
		c.enqueue(func() { c.handleIncoming(data) })
	})
	c.enqueue(c.handleInit)
	return nil
}

// Tunnel wraps initiator data for the remote applet and relays it out
// of band. The result callback reports whether the tunnel round
// succeeded. Only the initiator may tunnel.
func (c *Channel) Tunnel(data []byte, result func(ok bool)) error {
	if c.role != RoleInitiator {
		return ErrNotInitiator
	}
	c.enqueue(func() { c.handleTunnel(data, result) })
	return nil
}

// SendLocalCommand sends an APDU to the local applet outside the setup
// flow.
func (c *Channel) SendLocalCommand(cmd iso7816.CommandApdu, result func(ok bool, data []byte)) {
	c.enqueue(func() {
		if !c.se.IsChannelOpen() {
			result(false, nil)
			return
		}
		resp, err := c.transmit(cmd)
		if err != nil || !resp.IsSuccess() {
			c.log.Warnf("local command %s failed: %v %s", cmd, err, resp.SW)
			result(false, nil)
			return
		}
		result(true, resp.Data)
	})
}

// Terminate ends the secure session. From Established it sends the
// terminate-session get-DO to the applet; otherwise it only reports
// completion.
func (c *Channel) Terminate() {
	c.enqueue(c.handleTerminate)
}

// Cleanup swaps out a dynamic ADF slot and closes the applet channel.
func (c *Channel) Cleanup() {
	c.enqueue(c.handleCleanup)
}

// Close stops the worker once the pending queue drains.
func (c *Channel) Close() {
	c.mu.Lock()
	c.stopped = true
	c.cond.Signal()
	c.mu.Unlock()
}

// State returns the current channel state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Channel) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Channel) run() {
	for {
		c.mu.Lock()
		for len(c.queue) == 0 && !c.stopped {
			c.cond.Wait()
		}
		if len(c.queue) == 0 {
			c.mu.Unlock()
			return
		}
		fn := c.queue[0]
		c.queue = c.queue[1:]
		c.mu.Unlock()
		fn()
	}
}

func (c *Channel) enqueue(fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return false
	}
	c.queue = append(c.queue, fn)
	c.cond.Signal()
	return true
}

func (c *Channel) opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.cfg.OperationTimeout)
}

func (c *Channel) transmit(cmd iso7816.CommandApdu) (iso7816.ResponseApdu, error) {
	ctx, cancel := c.opCtx()
	defer cancel()
	return c.se.Transmit(ctx, cmd)
}

func (c *Channel) handleInit() {
	ctx, cancel := c.opCtx()
	err := c.se.Init(ctx)
	cancel()
	if err != nil {
		c.log.Errorf("secure element init: %v", err)
		c.cb.setupError(SetupErrorInit)
		return
	}
	c.setState(StateInitialized)
	if c.role == RoleInitiator {
		c.enqueue(c.handleOpenChannel)
	}
}

func (c *Channel) handleOpenChannel() {
	if !c.openAppletChannel() {
		return
	}
	c.enqueue(c.handleSelectAdf)
}

// openAppletChannel opens the logical channel and swaps in the dynamic
// ADF when the profile carries a secure blob.
func (c *Channel) openAppletChannel() bool {
	ctx, cancel := c.opCtx()
	err := c.se.OpenChannel(ctx)
	cancel()
	if err != nil {
		c.log.Errorf("open applet channel: %v", err)
		c.cb.setupError(SetupErrorOpenSeChannel)
		return false
	}
	if c.info.SecureBlob != nil {
		if !c.swapInAdf() {
			c.cb.setupError(SetupErrorSwapInAdf)
			return false
		}
	}
	c.setState(StateChannelOpened)
	return true
}

func (c *Channel) swapInAdf() bool {
	resp, err := c.transmit(SwapInAdfCommand(c.info.SecureBlob, c.info.AdfOid, c.info.ControleeInfo))
	if err != nil {
		c.log.Warnf("swap in ADF: %v", err)
		return false
	}
	swapIn, err := ParseSwapInAdfResponse(resp)
	if err != nil || !swapIn.SW.IsSuccess() || len(swapIn.SlotIdentifier) == 0 {
		c.log.Warnf("swap in ADF rejected: %s", resp.SW)
		return false
	}
	c.mu.Lock()
	c.slotID = swapIn.SlotIdentifier
	c.mu.Unlock()
	return true
}

func (c *Channel) handleSelectAdf() {
	resp, err := c.transmit(SelectAdfCommand(c.info.AdfOid))
	if err != nil || !resp.IsSuccess() {
		c.log.Errorf("select ADF: %v %s", err, resp.SW)
		c.cb.setupError(SetupErrorSelectAdf)
		return
	}
	c.setState(StateAdfSelected)
	c.enqueue(c.handleInitiateTransaction)
}

func (c *Channel) handleInitiateTransaction() {
	cmd := InitiateTransactionUnicastCommand(c.info.PeerAdfOids)
	if c.info.Multicast {
		cmd = InitiateTransactionMulticastCommand(c.info.PeerAdfOids, c.info.SharedSessionID)
	}
	resp, err := c.transmit(cmd)
	if err != nil {
		c.log.Errorf("initiate transaction: %v", err)
		c.cb.setupError(SetupErrorInitiateTransaction)
		return
	}
	initiate, err := ParseInitiateTransactionResponse(resp)
	if err != nil || !initiate.SW.IsSuccess() || len(initiate.OutboundData) == 0 {
		c.log.Errorf("initiate transaction rejected: %s", resp.SW)
		c.cb.setupError(SetupErrorInitiateTransaction)
		return
	}
	c.sendToRemote(initiate.OutboundData)
}

func (c *Channel) sendToRemote(data []byte) {
	if err := c.transport.Send(data); err != nil {
		c.log.Errorf("send to remote: %v", err)
	}
}

// handleIncoming dispatches data from the remote device through the
// FiRa applet. The responder opens the applet channel on the first
// remote command.
func (c *Channel) handleIncoming(data []byte) {
	if !c.se.IsChannelOpen() {
		if c.role != RoleResponder || c.State() != StateInitialized || !c.openAppletChannel() {
			c.dispatchError()
			return
		}
	}
	resp, err := c.transmit(DispatchCommand(data))
	if err != nil {
		c.log.Warnf("dispatch transmit: %v", err)
		c.dispatchError()
		return
	}
	dispatch, err := ParseDispatchResponse(resp)
	if err != nil {
		c.log.Warnf("dispatch parse: %v", err)
		c.dispatchError()
		return
	}

	if c.State() == StateEstablished {
		c.cb.dispatchResponse(dispatch)
		return
	}
	if !dispatch.IsSuccess() {
		c.log.Warnf("dispatch rejected: %s", dispatch.SW)
		c.dispatchError()
		return
	}
	c.handleSetupDispatch(dispatch)
}

// dispatchError reports a failed dispatch. During setup the peer gets a
// conditions-not-satisfied response out of band.
func (c *Channel) dispatchError() {
	if c.State() != StateEstablished {
		c.cb.setupError(SetupErrorDispatch)
		c.sendToRemote(iso7816.ResponseApduFromStatus(iso7816.SwConditionsNotSatisfied).Encode())
		return
	}
	c.cb.dispatchFailure()
}

func (c *Channel) handleSetupDispatch(dispatch *DispatchResponse) {
	if dispatch.Outbound != nil {
		if dispatch.Outbound.Target == OutboundTargetRemote {
			c.sendToRemote(dispatch.Outbound.Data)
		} else {
			c.log.Debugf("channel not established, dropping %d bytes bound for host",
				len(dispatch.Outbound.Data))
		}
	}
	for _, n := range dispatch.Notifications {
		switch n.ID {
		case NotificationAdfSelected:
			c.setState(StateAdfSelected)
		case NotificationSecureChannelEstablished:
			c.setState(StateEstablished)
			c.cb.established(n.SessionID, n.HasSessionID)
		case NotificationRdsAvailable:
			c.cb.rdsAvailable(n.SessionID, n.Data)
		case NotificationControleeInfoAvailable:
			c.cb.controleeInfoAvailable(n.Data)
		case NotificationSecureSessionAborted:
			c.handleCleanup()
		}
	}
}

func (c *Channel) handleTunnel(data []byte, result func(ok bool)) {
	if c.State() != StateEstablished {
		result(false)
		return
	}
	resp, err := c.transmit(TunnelCommand(data))
	if err != nil {
		c.log.Warnf("tunnel transmit: %v", err)
		result(false)
		return
	}
	tunnel, err := ParseTunnelResponse(resp)
	if err != nil || !tunnel.SW.IsSuccess() || len(tunnel.OutboundData) == 0 {
		c.log.Warnf("tunnel rejected: %s", resp.SW)
		result(false)
		return
	}
	c.sendToRemote(tunnel.OutboundData)
	result(true)
}

func (c *Channel) handleTerminate() {
	if c.State() != StateEstablished {
		c.cb.terminated(false)
		return
	}
	resp, err := c.transmit(GetDoCommand(TerminateSessionGetDoTlv()))
	if err != nil || !resp.IsSuccess() {
		c.log.Errorf("terminate session: %v %s", err, resp.SW)
		c.setState(StateAbnormal)
		c.cb.terminated(true)
		return
	}
	c.setState(StateTerminated)
	c.cb.terminated(false)
}

func (c *Channel) handleCleanup() {
	c.mu.Lock()
	slotID := c.slotID
	c.mu.Unlock()
	if slotID != nil {
		resp, err := c.transmit(SwapOutAdfCommand(slotID))
		if err != nil || !resp.IsSuccess() {
			c.log.Warnf("swap out ADF: %v %s", err, resp.SW)
		} else {
			c.mu.Lock()
			c.slotID = nil
			c.mu.Unlock()
		}
	}

	ctx, cancel := c.opCtx()
	err := c.se.CloseChannel(ctx)
	cancel()
	if err != nil {
		c.log.Warnf("close applet channel: %v", err)
		c.setState(StateAbnormal)
		c.cb.seChannelClosed(true)
		return
	}
	c.setState(StateInitialized)
	c.cb.seChannelClosed(false)
}
