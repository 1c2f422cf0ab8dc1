package audit

import "testing"

func TestChecksumDeterministic(t *testing.T) {
	a := Checksum("2026-08-03T12:00:00", "director", "lockdown_triggered", "X", "m")
	b := Checksum("2026-08-03T12:00:00", "director", "lockdown_triggered", "X", "m")
	if a != b {
		t.Error("checksum is not deterministic")
	}
}

func TestChecksumSensitiveToEveryField(t *testing.T) {
	base := Checksum("2026-08-03T12:00:00", "director", "lockdown_triggered", "X", "m")
	variants := []string{
		Checksum("2026-08-03T12:00:01", "director", "lockdown_triggered", "X", "m"),
		Checksum("2026-08-03T12:00:00", "researcher", "lockdown_triggered", "X", "m"),
		Checksum("2026-08-03T12:00:00", "director", "task_created", "X", "m"),
		Checksum("2026-08-03T12:00:00", "director", "lockdown_triggered", "Y", "m"),
		Checksum("2026-08-03T12:00:00", "director", "lockdown_triggered", "X", "n"),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d unexpectedly matches base checksum", i)
		}
	}
}

func TestChecksumAbsentFieldsAreEmptyString(t *testing.T) {
	a := Checksum("2026-08-03T12:00:00", "system", "tick", "", "")
	b := Checksum("2026-08-03T12:00:00", "system", "tick", "", "")
	if a != b || a == "" {
		t.Error("checksum over absent fields should still be deterministic and non-empty")
	}
}

func TestVerify(t *testing.T) {
	sum := Checksum("2026-08-03T12:00:00", "director", "ack", "ESC-001", "note")
	if !Verify("2026-08-03T12:00:00", "director", "ack", "ESC-001", "note", sum) {
		t.Error("expected Verify to pass against its own checksum")
	}
	if Verify("2026-08-03T12:00:00", "director", "ack", "ESC-001", "tampered", sum) {
		t.Error("expected Verify to fail after a field is tampered")
	}
}
