// Package notifications persists in-app notifications and fans them out to
// email, SMS and push according to each user's preferences.
//
// # Architecture
//
//   - Storage: persists in-app Records (MemoryStorage, pgstore.Storage)
//   - PreferenceStore: per-user channel and type toggles (MemoryPreferenceStore,
//     CachedPreferenceStore, pgstore.PreferenceStore, redisprefs.Store)
//   - ChannelSender: delivers a Record over one channel (EmailSender, LogSender)
//   - Dispatcher: orchestrates the above
//
// Every Dispatcher.Send stores exactly one in-app record, whatever channels
// were requested. The in-app record is the source of truth: once it is stored,
// problems on other channels are reported in the returned Report and logged,
// but never returned as an error. Secondary channels run concurrently and a
// panicking sender only fails its own channel.
//
// # Basic Usage
//
//	mailer := email.New(mailCfg)
//	d := notifications.NewDispatcher(
//	    notifications.NewMemoryStorage(),
//	    notifications.NewMemoryPreferenceStore(),
//	    notifications.WithSender(notifications.ChannelEmail, notifications.NewEmailSender(mailer)),
//	    notifications.WithSender(notifications.ChannelSMS, notifications.NewLogSender(notifications.ChannelSMS, log)),
//	    notifications.WithSender(notifications.ChannelPush, notifications.NewLogSender(notifications.ChannelPush, log)),
//	)
//
//	report, err := d.NotifySessionBooked(ctx, mentorID, "Sarah", startsAt,
//	    notifications.WithRelated("session", sessionID))
//	if err != nil {
//	    // nothing was stored, or preferences could not be loaded
//	}
//	if res, _ := report.Result(notifications.ChannelEmail); res.Status == notifications.StatusFailed {
//	    // already logged by the dispatcher
//	}
//
// # Gates
//
// Email and push are sent when the channel is enabled and the notification
// type is enabled for it. SMS uses three coarse buckets: reminders, sessions
// and urgent (high priority); it is sent when SMS is enabled and any bucket
// the request maps into is enabled. Notifications of an unknown type are
// stored but never pass a gate.
//
// # Email Recipient
//
// EmailSender resolves the recipient with an AddressResolver. The default,
// RelatedUserAddress, uses the related user snapshot carried by the request.
// OwnerAddress looks up the notification owner instead, and FirstAddress
// chains strategies.
package notifications
