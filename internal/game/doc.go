// Package game implements the blackjack engine: players and hand scoring,
// the round state machine, and the session loop that strings rounds
// together until the user runs out of money or the deck runs out of cards.
//
// # Basic Usage
//
// Build a shuffled deck, start a session and play rounds through the step API:
//
//	d := deck.NewDeck(randutil.New(42))
//	_ = d.Shuffle()
//	s := game.NewSession(game.DefaultRules(), d)
//	r, err := s.StartRound(1) // one unit of 100
//	if err == nil && !r.Done() {
//	    _, _ = r.Hit()
//	    _ = r.Stand()
//	}
//	outcome, _ := s.EndRound()
//
// Front-ends that block on input can instead implement Controller and hand
// the whole loop to Session.Play.
//
// # Deterministic Testing
//
// The engine only needs a deck.Source, so tests stack the deck:
//
//	d := deck.NewStackedDeck(deck.MustParseCards("Th9s7hKc4d")...)
//
// Session time comes from an injected quartz.Clock (see WithClock).
//
// # Scoring
//
// Hand values are computed in a single left-to-right pass. An Ace counts 11
// when the total of the cards before it is 10 or less, and 1 otherwise. This
// is not a best-total search: [A, A, 9] scores 21 and [9, A, A] scores 21,
// but [5, 5, A, A] scores 22.
package game
