package storage

import "testing"

func TestParsePhase(t *testing.T) {
	for _, label := range []string{"intro", "warmup", "behavioral", "role_specific", "culture", "wrap_up", "jd_sequence", "finished"} {
		p, err := ParsePhase(label)
		if err != nil {
			t.Fatalf("ParsePhase(%q) failed: %v", label, err)
		}
		if string(p) != label {
			t.Fatalf("ParsePhase(%q) = %q", label, p)
		}
	}
}

func TestParsePhaseRejectsUnknownLabels(t *testing.T) {
	for _, label := range []string{"", "Intro", "technical", "warm_up", "final"} {
		if _, err := ParsePhase(label); err == nil {
			t.Fatalf("ParsePhase(%q) should have failed", label)
		}
	}
}

func TestPhaseNext(t *testing.T) {
	cases := []struct {
		from, want Phase
	}{
		{PhaseIntro, PhaseWarmup},
		{PhaseWarmup, PhaseBehavioral},
		{PhaseBehavioral, PhaseRoleSpecific},
		{PhaseRoleSpecific, PhaseCulture},
		{PhaseCulture, PhaseWrapUp},
		{PhaseWrapUp, PhaseFinished},
		{PhaseJDSequence, PhaseFinished},
		{PhaseFinished, PhaseFinished},
	}
	for _, c := range cases {
		if got := c.from.Next(); got != c.want {
			t.Errorf("%s.Next() = %s, want %s", c.from, got, c.want)
		}
	}
}

func TestPhaseBefore(t *testing.T) {
	if !PhaseIntro.Before(PhaseWrapUp) {
		t.Error("intro should come before wrap_up")
	}
	if PhaseWrapUp.Before(PhaseIntro) {
		t.Error("wrap_up must not come before intro")
	}
	if PhaseCulture.Before(PhaseCulture) {
		t.Error("Before must be strict")
	}
	// jd_sequence sits outside the general ordering entirely.
	if PhaseJDSequence.Before(PhaseWrapUp) || PhaseIntro.Before(PhaseJDSequence) {
		t.Error("jd_sequence must not be ordered against general phases")
	}
}

func TestPhaseTerminal(t *testing.T) {
	if !PhaseFinished.Terminal() {
		t.Error("finished must be terminal")
	}
	if PhaseWrapUp.Terminal() || PhaseJDSequence.Terminal() {
		t.Error("only finished is terminal")
	}
}

func TestRoundsFirstSeenOrder(t *testing.T) {
	rec := &SessionRecord{
		Entries: []QAEntry{
			{Index: 0, Round: PhaseIntro},
			{Index: 1, Round: PhaseIntro},
			{Index: 2, Round: PhaseWarmup},
			{Index: 3, Round: PhaseBehavioral},
			{Index: 4, Round: PhaseWarmup},
		},
	}
	rounds := rec.Rounds()
	want := []Phase{PhaseIntro, PhaseWarmup, PhaseBehavioral}
	if len(rounds) != len(want) {
		t.Fatalf("got %d rounds, want %d", len(rounds), len(want))
	}
	for i := range want {
		if rounds[i] != want[i] {
			t.Errorf("rounds[%d] = %s, want %s", i, rounds[i], want[i])
		}
	}
}
