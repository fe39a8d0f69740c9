// Command simulate is the demo CLI (SPEC_FULL.md §4.15): it wires
// configuration, telemetry, a two-node topology, and a minimal
// entanglement-generation demo protocol exercising the REQUEST/RESPONSE
// handshake end-to-end, then runs the Timeline to completion and prints a
// summary.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/theapemachine/qsim/internal/config"
	"github.com/theapemachine/qsim/internal/kernel"
	"github.com/theapemachine/qsim/internal/node"
	"github.com/theapemachine/qsim/internal/optical"
	"github.com/theapemachine/qsim/internal/protocols"
	"github.com/theapemachine/qsim/internal/qmclient"
	"github.com/theapemachine/qsim/internal/qvalue"
	"github.com/theapemachine/qsim/internal/regulator"
	"github.com/theapemachine/qsim/internal/resourcemgr"
	"github.com/theapemachine/qsim/internal/telemetry"
)

func main() {
	configPath := pflag.String("config", "", "path to a TOML configuration file")
	seedOverride := pflag.Int64("seed", 0, "override the configured RNG seed (0 = use config)")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *seedOverride != 0 {
		cfg.Seed = *seedOverride
	}

	log := telemetry.New(telemetry.ParseLevel(cfg.LogLevel))
	log.Info("starting simulation: seed=%d horizon=%dps", cfg.Seed, cfg.HorizonPs)

	tl := kernel.New(cfg.HorizonPs, cfg.Seed, log)

	ccDelay := int64(float64(cfg.Classical.DistanceMeters) / cfg.Classical.LightSpeedMPerPs)
	cc := optical.NewClassicalChannel(tl, "cc_a_b", int64(cfg.Classical.DistanceMeters), &ccDelay)
	qc := optical.NewQuantumChannel(tl, "qc_a_b", cfg.Channel.AttenuationDBPerM, int64(cfg.Channel.DistanceMeters),
		cfg.Channel.PolarizationFidelity, cfg.Channel.LightSpeedMPerPs, cfg.Channel.FrequencyHz)

	nodeA := node.New(tl, "NodeA")
	nodeB := node.New(tl, "NodeB")
	cc.SetEnds(nodeA, nodeB)
	qc.SetEnds(nodeA, nodeB)

	breaker := regulator.NewCircuitBreaker(5, 0, 1, log)
	churnGuard := regulator.NewBackPressureRegulator(2.0)
	qm := qmclient.New(qvalue.NewStore(), breaker, log)

	memA := []*resourcemgr.Memory{resourcemgr.NewMemory("NodeA.mem0", 1.0)}
	memB := []*resourcemgr.Memory{resourcemgr.NewMemory("NodeB.mem0", 1.0)}

	rmA := resourcemgr.NewResourceManager(tl, nodeA, memA, churnGuard, log)
	rmB := resourcemgr.NewResourceManager(tl, nodeB, memB, churnGuard, log)
	nodeA.SetResourceManager(rmA)
	nodeB.SetResourceManager(rmB)

	primaryRule := resourcemgr.NewRule(10, primaryAction(tl, rmA, qm, log), rawCondition)
	secondaryRule := resourcemgr.NewRule(10, secondaryAction(tl, rmB, qm, log), rawCondition)
	rmA.Load(primaryRule)
	rmB.Load(secondaryRule)

	tl.Init()
	tl.Run()

	log.Info("simulation complete: %d events executed", tl.EventsExecuted())
	for _, info := range rmA.MemoryManager().All() {
		log.Info("NodeA memory %s: state=%s", info.Memory.Name(), info.State)
	}
	for _, info := range rmB.MemoryManager().All() {
		log.Info("NodeB memory %s: state=%s", info.Memory.Name(), info.State)
	}

	if n := rmA.RequestLatency().Count(); n > 0 {
		log.Info("NodeA request/response latency: mean=%dps p99=%dps (n=%d)",
			rmA.RequestLatency().Mean(), rmA.RequestLatency().Percentile(0.99), n)
	}
}

func rawCondition(info *resourcemgr.MemoryInfo, _ *resourcemgr.ResourceManager) []*resourcemgr.MemoryInfo {
	if info.State == resourcemgr.StateRaw {
		return []*resourcemgr.MemoryInfo{info}
	}
	return nil
}

// primaryAction builds NodeA's demo protocol: it requests pairing from
// NodeB and, once paired, immediately reports success to rm. Its protocol
// is also given qm, so completing the handshake allocates a breaker-guarded
// quantum-state handle.
func primaryAction(tl *kernel.Timeline, rm *resourcemgr.ResourceManager, qm *qmclient.Client, log *telemetry.Logger) resourcemgr.ActionFunc {
	return func(matches []*resourcemgr.MemoryInfo) (resourcemgr.Protocol, []resourcemgr.RemoteRequest) {
		mems := make([]*resourcemgr.Memory, len(matches))
		for i, m := range matches {
			mems[i] = m.Memory
		}
		p := protocols.NewEntanglementGeneration(tl, rm, "demo."+mems[0].Name(), mems, log)
		p.SetQuantumClient(qm)
		return p, []resourcemgr.RemoteRequest{{RemoteNode: "NodeB", Condition: matchAnyWaiting}}
	}
}

// secondaryAction builds NodeB's demo protocol: it waits locally for an
// inbound REQUEST to pair it. Its protocol is also given qm, for the same
// reason as primaryAction's.
func secondaryAction(tl *kernel.Timeline, rm *resourcemgr.ResourceManager, qm *qmclient.Client, log *telemetry.Logger) resourcemgr.ActionFunc {
	return func(matches []*resourcemgr.MemoryInfo) (resourcemgr.Protocol, []resourcemgr.RemoteRequest) {
		mems := make([]*resourcemgr.Memory, len(matches))
		for i, m := range matches {
			mems[i] = m.Memory
		}
		p := protocols.NewEntanglementGeneration(tl, rm, "demo."+mems[0].Name(), mems, log)
		p.SetQuantumClient(qm)
		return p, []resourcemgr.RemoteRequest{{}}
	}
}

func matchAnyWaiting(waiting []resourcemgr.Protocol) resourcemgr.Protocol {
	if len(waiting) == 0 {
		return nil
	}
	return waiting[0]
}
