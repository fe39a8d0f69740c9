package node

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/theapemachine/qsim/internal/kernel"
	"github.com/theapemachine/qsim/internal/resourcemgr"
	"github.com/theapemachine/qsim/internal/topology"
)

type stubProtocol struct {
	name          string
	receivedFrom  string
	receivedMsg   topology.Message
	receivedCount int
}

func (p *stubProtocol) Name() string                   { return p.name }
func (p *stubProtocol) Memories() []*resourcemgr.Memory { return nil }
func (p *stubProtocol) IsReady() bool                  { return false }
func (p *stubProtocol) SetOthers(resourcemgr.Protocol)  {}
func (p *stubProtocol) Start()                         {}
func (p *stubProtocol) Release()                        {}
func (p *stubProtocol) Rule() *resourcemgr.Rule         { return nil }
func (p *stubProtocol) SetRule(*resourcemgr.Rule)       {}
func (p *stubProtocol) Own() resourcemgr.Host           { return nil }
func (p *stubProtocol) SetOwn(resourcemgr.Host)         {}
func (p *stubProtocol) RemoteNode() string              { return "" }
func (p *stubProtocol) SetRemoteNode(string)            {}
func (p *stubProtocol) ReceivedMessage(src string, msg topology.Message) {
	p.receivedFrom = src
	p.receivedMsg = msg
	p.receivedCount++
}

type stubMessage struct {
	receiver string
}

func (m *stubMessage) MsgType() string  { return "stub" }
func (m *stubMessage) Receiver() string { return m.receiver }

var _ resourcemgr.Protocol = (*stubProtocol)(nil)
var _ topology.Message = (*stubMessage)(nil)

func TestNodeReceiveMessageRoutesToProtocol(t *testing.T) {
	Convey("Given a Node running a protocol that is not the resource manager", t, func() {
		tl := kernel.New(1000, 1, nil)
		n := New(tl, "NodeA")

		p := &stubProtocol{name: "demo.mem0"}
		n.AddProtocol(p)

		Convey("A message addressed to that protocol's name is delivered to it directly", func() {
			msg := &stubMessage{receiver: "demo.mem0"}
			n.ReceiveMessage("NodeB", msg)

			So(p.receivedCount, ShouldEqual, 1)
			So(p.receivedFrom, ShouldEqual, "NodeB")
			So(p.receivedMsg, ShouldEqual, msg)
		})

		Convey("A message addressed to an unknown receiver reaches no protocol", func() {
			msg := &stubMessage{receiver: "someone.else"}
			n.ReceiveMessage("NodeB", msg)

			So(p.receivedCount, ShouldEqual, 0)
		})
	})
}
