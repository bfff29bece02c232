package blackjack

// settleLocked computes every player's outcome against the dealer hand
// and credits stacks accordingly, then shows the result before the lobby
// reset. Outcome precedence, first match wins: bust, both naturals,
// player natural, dealer bust, value comparison.
func (r *Room) settleLocked() {
	r.phase = PhaseResult
	dealerValue := r.dealer.Value()
	dealerBust := dealerValue > 21
	dealerBlackjack := r.dealer.IsBlackjack()

	for _, p := range r.players {
		if !p.InRound() {
			// Joined mid-round; nothing staked, nothing to settle.
			p.Bet = 0
			p.InsuranceBet = 0
			continue
		}

		// Insurance pays 2:1 on top of the refunded stake.
		if p.InsuranceBet > 0 && dealerBlackjack {
			payout := p.InsuranceBet * 3
			p.Stack += payout
			r.logger.Info("insurance paid", "player", p.Name, "payout", payout)
		}

		playerValue := p.Hand.Value()
		switch {
		case p.Hand.IsBust():
			p.Result = ResultLose
			p.Status = StatusBust
		case p.Hand.IsBlackjack() && dealerBlackjack:
			p.Result = ResultPush
			p.Stack += p.Bet
		case p.Hand.IsBlackjack():
			p.Result = ResultBlackjack
			p.Stack += p.Bet * 5 / 2
		case dealerBust:
			p.Result = ResultWin
			p.Stack += p.Bet * 2
		case playerValue > dealerValue:
			p.Result = ResultWin
			p.Stack += p.Bet * 2
		case playerValue == dealerValue:
			p.Result = ResultPush
			p.Stack += p.Bet
		default:
			p.Result = ResultLose
		}

		r.logger.Info("settled", "player", p.Name, "result", p.Result.String(), "value", playerValue, "stack", p.Stack)
		p.Bet = 0
		p.InsuranceBet = 0
	}

	r.broadcastLocked()
	r.armTimerLocked(r.cfg.ResultDisplay, r.resetToLobbyLocked)
}
