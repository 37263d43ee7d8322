// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package updater

// Stage is one named step of the update state machine. A session moves
// through the stages strictly in order; any unrecoverable failure moves
// to the terminal aborted state instead.
type Stage int

// Update stages, in execution order.
const (
	StageIdle Stage = iota
	StageVerifyReady
	StageEnterUpdateMode
	StageTransferFirmware
	StageProgramFlash
	StageAwaitFlashComplete
	StageTransferEachCWD
	StageFinalize
	StageResetDevice
	StageDone
)

var stageNames = map[Stage]string{
	StageIdle:               "Idle",
	StageVerifyReady:        "VerifyReady",
	StageEnterUpdateMode:    "EnterUpdateMode",
	StageTransferFirmware:   "TransferFirmware",
	StageProgramFlash:       "ProgramFlash",
	StageAwaitFlashComplete: "AwaitFlashComplete",
	StageTransferEachCWD:    "TransferEachCWD",
	StageFinalize:           "Finalize",
	StageResetDevice:        "ResetDevice",
	StageDone:               "Done",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Stages returns the happy-path stage sequence.
func Stages() []Stage {
	return []Stage{
		StageIdle, StageVerifyReady, StageEnterUpdateMode,
		StageTransferFirmware, StageProgramFlash, StageAwaitFlashComplete,
		StageTransferEachCWD, StageFinalize, StageResetDevice, StageDone,
	}
}
