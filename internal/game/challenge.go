package game

func (r *Reducer) requestChallenge(s State, a RequestChallenge) (State, error) {
	cur, err := r.actor(s)
	if err != nil {
		return s, err
	}
	if !a.Type.Valid() {
		return s, reject("invalid challenge type %q", a.Type)
	}
	if a.Type == ChallengeTruth && !s.CanChooseTruth() {
		return s, reject("truth is not available, a dare is forced")
	}
	if s.Challenge.Phase != ChallengeIdle && s.Challenge.Phase != ChallengeFailed {
		return s, reject("challenge already %s", s.Challenge.Phase)
	}

	next := s.Clone()
	next.ChallengeSeq++
	prev := next.Challenge
	next.Challenge = emptyChallenge()
	next.Challenge.Phase = ChallengeRequested
	next.Challenge.Type = a.Type
	next.Challenge.RequestID = next.ChallengeSeq
	next.Challenge.OriginalExecutorIndex = index(cur)
	next.Challenge.CurrentExecutorIndex = index(cur)
	// a partner linked before the challenge was chosen stays linked
	if prev.ExecutionMode == ExecutionShared {
		next.Challenge.ExecutionMode = ExecutionShared
		next.Challenge.PartnerIndex = prev.PartnerIndex
	}
	next.Dialog, next.DialogReturn = DialogNone, DialogNone
	return next, nil
}

func (r *Reducer) receiveChallenge(s State, a ReceiveChallenge) (State, error) {
	if s.Challenge.Phase != ChallengeRequested {
		return s, reject("no challenge request in flight")
	}
	if a.RequestID != s.Challenge.RequestID {
		return s, reject("stale challenge response %d, expecting %d", a.RequestID, s.Challenge.RequestID)
	}
	exec := s.Challenge.CurrentExecutorIndex
	if _, ok := s.PlayerAt(exec); !ok {
		return s, reject("challenge has no executor")
	}
	typ := a.Type
	if !typ.Valid() {
		typ = s.Challenge.Type
	}

	next := s.Clone()
	p := &next.Players[*exec]
	if typ == ChallengeDare {
		p.DareStreak++
		if p.DareStreak >= DareStreakReward {
			*p = p.withCard(CardImmunity)
			p.DareStreak = 0
			next.GameMessage = message(MsgDareStreak, "name", p.Name)
		}
	} else {
		p.DareStreak = 0
	}

	next.IsStealFailure = false
	next.IsNextChallengeIntensified = false
	next.Challenge.Phase = ChallengeReceived
	next.Challenge.Type = typ
	next.Challenge.Text = a.Text
	return next, nil
}

func (r *Reducer) challengeFail(s State, a ChallengeFail) (State, error) {
	if s.Challenge.Phase != ChallengeRequested {
		return s, reject("no challenge request in flight")
	}
	if a.RequestID != s.Challenge.RequestID {
		return s, reject("stale challenge failure %d, expecting %d", a.RequestID, s.Challenge.RequestID)
	}
	next := s.Clone()
	next.Challenge.Phase = ChallengeFailed
	next.Challenge.Text = ChallengeErrorText
	return next, nil
}
