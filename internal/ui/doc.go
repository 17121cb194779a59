// Package ui hosts the like button in the terminal with bubbletea.
//
// The Model reads the widget's state on a tick, the same way the rest of the
// state is polled, and runs every network-bound action as a tea.Cmd so a
// slow API never stalls rendering. Key presses resolve to an action from the
// current state: a signed-out viewer is sent to sign up, a like past the cap
// turns into a super like when one is available, and a press during the
// cooldown is recorded so the hint can ask the viewer to come back later.
//
// Links leave the terminal through an opener.Opener. Sign up and the
// portfolio honour the open_in_new_window preference; the other pages always
// use their named popup.
package ui
