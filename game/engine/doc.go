// Package engine provides the core rules of the property trading simulation.
//
// The engine package implements the game mechanics including:
//   - Circular board generation with random prices and derived rents
//   - Dice movement with a lap bonus on wrap-around
//   - Rent settlement and immediate bankruptcy elimination
//   - Pluggable purchase strategies
//   - Termination by last player standing or by round limit
//
// Core Types:
//
// Game owns the board and the players for one simulation. Board is the
// circular sequence of Property tiles. Player carries a balance, a position
// and a Strategy that decides purchases. Every random draw (prices, dice,
// the initial shuffle and the Random strategy) comes from one injected Rand,
// so a seeded *math/rand.Rand reproduces a run exactly.
//
// Usage:
//
//	rng := rand.New(rand.NewSource(42))
//	players := []*engine.Player{
//		engine.NewPlayer(engine.Impulsive{}),
//		engine.NewPlayer(engine.Cautious{}),
//	}
//	game, err := engine.NewGame(players, 20, rng)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for !game.IsFinished() {
//		for _, p := range game.ActivePlayers() {
//			if game.TakeTurn(p, game.Board().RollDie()) && !game.IsFinished() && game.IsActive(p) {
//				game.AttemptPurchase(p)
//			}
//		}
//	}
//	fmt.Println(game.Result().Winner)
//
// Illegal actions (moving an eliminated player, buying an owned tile) are
// refused by returning false. Only construction errors are reported as
// errors, and they wrap ErrInvalidConfig.
//
// A Game is single-threaded. Callers sharing one across goroutines must
// serialise access themselves.
package engine
