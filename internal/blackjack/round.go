package blackjack

// Round orchestration: the timer-driven walk through
// SHUFFLING -> DEALING -> INSURANCE -> PLAYER -> DEALER -> RESULT.
// Every function here expects the room mutex to be held; deferred steps
// re-enter through armTimerLocked.

// startRoundLocked kicks off a round, reshuffling first when the shoe has
// dropped below the threshold.
func (r *Room) startRoundLocked() {
	if r.shoe.NeedsReshuffle() {
		r.logger.Info("reshuffling shoe", "remaining", r.shoe.Remaining())
		r.shoe.Regenerate()
		r.phase = PhaseShuffling
		r.broadcastLocked()
		r.armTimerLocked(r.cfg.ShufflePause, r.startDealingLocked)
		return
	}
	r.startDealingLocked()
}

// startDealingLocked resets per-round state and begins the paced deal:
// one card to each player in join order then the dealer, twice over.
func (r *Room) startDealingLocked() {
	r.phase = PhaseDealing
	r.turnIdx = -1
	r.dealer = nil
	for _, p := range r.players {
		p.resetRound()
	}

	r.dealQueue = r.dealQueue[:0]
	for pass := 0; pass < 2; pass++ {
		for _, p := range r.players {
			r.dealQueue = append(r.dealQueue, p)
		}
		r.dealQueue = append(r.dealQueue, nil) // dealer
	}

	r.dealStepLocked()
}

// dealStepLocked deals the next queued card and broadcasts immediately,
// so clients can animate each card independent of the full sequence.
func (r *Room) dealStepLocked() {
	if r.phase != PhaseDealing {
		return
	}
	if len(r.dealQueue) == 0 {
		r.finishDealingLocked()
		return
	}

	target := r.dealQueue[0]
	r.dealQueue = r.dealQueue[1:]

	// Players who left mid-deal are skipped without burning a card.
	if target != nil && !r.seatedLocked(target) {
		r.dealStepLocked()
		return
	}

	card, err := r.shoe.Draw()
	if err != nil {
		r.abortRoundLocked(err)
		return
	}
	if target == nil {
		r.dealer = append(r.dealer, card)
	} else {
		target.Hand = append(target.Hand, card)
	}

	r.broadcastLocked()
	r.armTimerLocked(r.cfg.DealPace, r.dealStepLocked)
}

// finishDealingLocked opens the insurance window when the dealer shows an
// ace, otherwise goes straight to the first player turn.
func (r *Room) finishDealingLocked() {
	if len(r.dealer) > 0 && r.dealer[0].IsAce() {
		r.phase = PhaseInsurance
		r.turnIdx = -1
		r.logger.Info("dealer shows ace, insurance open")
		r.broadcastLocked()
		r.armTimerLocked(r.cfg.InsuranceWindow, r.enterPlayerPhaseLocked)
		return
	}
	r.enterPlayerPhaseLocked()
}

// insuranceSettledLocked reports whether nothing is left pending in the
// insurance window: every dealt-in player has either bought insurance or
// cannot afford the stake.
func (r *Room) insuranceSettledLocked() bool {
	for _, p := range r.players {
		if !p.InRound() || p.Bet <= 0 {
			continue
		}
		if p.InsuranceBet == 0 && p.Stack >= p.Bet/2 && p.Bet/2 > 0 {
			return false
		}
	}
	return true
}

// enterPlayerPhaseLocked hands the round to the first eligible player.
func (r *Room) enterPlayerPhaseLocked() {
	r.phase = PhasePlayer
	r.turnIdx = -1
	r.advanceTurnLocked()
}

// advanceTurnLocked moves to the next player who can still act, or to the
// dealer once none remain. Turn advancement is monotonic: finished
// players are never revisited within a round.
func (r *Room) advanceTurnLocked() {
	r.cancelTimerLocked()

	next := -1
	for i := r.turnIdx + 1; i < len(r.players); i++ {
		p := r.players[i]
		if p.InRound() && !p.Status.Finished() {
			next = i
			break
		}
	}

	if next == -1 {
		r.phase = PhaseDealer
		r.turnIdx = -1
		r.logger.Info("all players done, dealer's turn")
		r.broadcastLocked()
		r.armTimerLocked(r.cfg.DealerRevealPause, r.dealerTurnLocked)
		return
	}

	r.turnIdx = next
	r.logger.Debug("next turn", "player", r.players[next].Name)
	r.broadcastLocked()
	r.armTurnTimerLocked()
}

// armTurnTimerLocked starts the action countdown for the acting player.
// If it fires before they act, the turn advances exactly as a stand
// would, with status TIMEOUT.
func (r *Room) armTurnTimerLocked() {
	if r.phase != PhasePlayer || r.turnIdx < 0 || r.turnIdx >= len(r.players) {
		return
	}
	current := r.players[r.turnIdx]
	r.armTimerLocked(r.cfg.TurnTimeout, func() {
		if r.phase != PhasePlayer || !r.isTurnLocked(current) || current.Status.Finished() {
			return
		}
		r.logger.Info("turn timed out", "player", current.Name)
		current.Status = StatusTimeout
		r.advanceTurnLocked()
	})
}

// dealerTurnLocked draws for the dealer while the hand value is below 17,
// pacing each draw for client animation, then hands off to settlement.
// The dealer stands on any 17, soft included.
func (r *Room) dealerTurnLocked() {
	if r.phase != PhaseDealer {
		return
	}
	if r.dealer.Value() < 17 {
		card, err := r.shoe.Draw()
		if err != nil {
			r.abortRoundLocked(err)
			return
		}
		r.dealer = append(r.dealer, card)
		r.logger.Debug("dealer draws", "card", card.String(), "value", r.dealer.Value())
		r.broadcastLocked()
		r.armTimerLocked(r.cfg.DealerPace, r.dealerTurnLocked)
		return
	}
	r.armTimerLocked(r.cfg.SettlePause, r.settleLocked)
}

// resetToLobbyLocked clears all per-round state after the result display.
func (r *Room) resetToLobbyLocked() {
	r.phase = PhaseLobby
	r.turnIdx = -1
	r.dealer = nil
	for _, p := range r.players {
		p.resetRound()
		p.Ready = false
	}
	r.broadcastLocked()
}

// abortRoundLocked recovers from an invariant violation (an exhausted
// shoe mid-round). No settlement ran, so outstanding stakes are refunded
// and the room returns to the lobby.
func (r *Room) abortRoundLocked(err error) {
	r.logger.Error("aborting round", "error", err)
	r.cancelTimerLocked()
	for _, p := range r.players {
		p.Stack += p.Bet + p.InsuranceBet
		p.Bet = 0
		p.InsuranceBet = 0
		p.resetRound()
		p.Ready = false
	}
	r.dealer = nil
	r.phase = PhaseLobby
	r.turnIdx = -1
	r.broadcastLocked()
}
