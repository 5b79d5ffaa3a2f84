package input

import "context"

// WizardUseCase opens private-message dialogs. Both calls return once the
// first prompt was delivered; the dialog continues in the background.
type WizardUseCase interface {
	StartCreation(ctx context.Context, userID, venueID string) error
	StartEdit(ctx context.Context, userID, eventID string) error
}
