package i18n

// catalog 各语言消息表，两种语言的 key 必须一致
var catalog = map[string]map[string]string{
	LocaleEnIN: {
		"error.bad_request":             "Invalid request",
		"error.unauthorized":            "Please log in first",
		"error.forbidden":               "You do not have permission for this action",
		"error.not_found":               "Resource not found",
		"error.internal":                "Something went wrong, please try again",
		"error.rate_limited":            "Too many requests, please retry in %d seconds",
		"error.rate_limit_unavailable":  "Rate limiter unavailable",
		"error.login_too_many":          "Too many login attempts, please retry in %d seconds",
		"error.auth_header_missing":     "Authorization token missing",
		"error.auth_header_invalid":     "Authorization header is malformed",
		"error.token_invalid":           "Session is invalid, please log in again",
		"error.token_revoked":           "Session has ended, please log in again",
		"error.user_disabled":           "This account has been disabled",
		"error.jwt_secret_missing":      "Authentication is not configured",
		"error.customer_id_invalid":     "Invalid customer",
		"error.customer_id_type_invalid": "Invalid customer context",
		"error.admin_id_invalid":        "Invalid administrator",
		"error.admin_id_type_invalid":   "Invalid administrator context",
		"error.invalid_credentials":     "Incorrect email or password",
		"error.email_invalid":           "Please enter a valid email address",
		"error.email_exists":            "This email is already registered",
		"error.password_too_short":      "Password must be at least 8 characters",
		"error.register_failed":         "Registration failed",
		"error.login_failed":            "Login failed",
		"error.logout_failed":           "Logout failed",
		"error.session_check_failed":    "Unable to verify session",
		"error.product_not_found":       "Product not found",
		"error.product_fetch_failed":    "Unable to load products",
		"error.variant_not_found":       "This variant is no longer available",
		"error.variant_inactive":        "This variant is currently unavailable",
		"error.option_type_invalid":     "Please choose a valid option",
		"error.option_not_found":        "Selected option is unavailable",
		"error.option_mismatch":         "Selected option does not match this product",
		"error.stock_insufficient":      "Not enough stock available",
		"error.quantity_invalid":        "Invalid quantity",
		"error.cart_action_invalid":     "Invalid cart action",
		"error.cart_item_not_found":     "Cart item not found",
		"error.cart_version_conflict":   "Your cart changed elsewhere, please review it",
		"error.cart_empty":              "Your cart is empty",
		"error.cart_fetch_failed":       "Unable to load cart",
		"error.cart_update_failed":      "Unable to update cart",
		"error.coupon_code_required":    "Please enter a coupon code",
		"error.coupon_invalid":          "Invalid coupon",
		"error.coupon_not_found":        "Coupon not found",
		"error.coupon_inactive":         "This coupon is inactive",
		"error.coupon_not_started":      "This coupon is not active yet",
		"error.coupon_expired":          "This coupon has expired",
		"error.coupon_usage_limit":      "This coupon has reached its usage limit",
		"error.coupon_customer_limit":   "You have already used this coupon",
		"error.coupon_scope_invalid":    "This coupon does not apply to your cart",
		"error.coupon_min_amount":       "Cart total is below the coupon minimum",
		"error.gift_card_code_required": "Please enter a gift card code",
		"error.gift_card_not_found":     "Gift card not found",
		"error.gift_card_inactive":      "This gift card is inactive",
		"error.gift_card_expired":       "This gift card has expired",
		"error.gift_card_redeemed":      "This gift card has already been redeemed",
		"error.gift_card_exceeds_order": "Gift card value cannot exceed the order value",
		"error.address_required":        "Please select a shipping address",
		"error.address_not_found":       "Address not found",
		"error.address_invalid":         "Please fill in all address fields",
		"error.address_fetch_failed":    "Unable to load addresses",
		"error.address_create_failed":   "Unable to save address",
		"error.payment_method_invalid":  "Please choose a supported payment method",
		"error.amount_mismatch":         "Order amount changed, please review your order",
		"error.order_not_found":         "Order not found",
		"error.order_status_invalid":    "This order can no longer be paid",
		"error.order_fetch_failed":      "Unable to load orders",
		"error.order_create_failed":     "Unable to place order",
		"error.payment_not_found":       "Payment not found",
		"error.payment_gateway_failed":  "Payment gateway is unavailable, please try again",
		"error.payment_not_configured":  "This payment method is not available",
		"error.payment_verify_failed":   "Payment verification failed",
		"error.checkout_state_invalid":  "Checkout session is invalid, please start again",
		"error.checkout_failed":         "Checkout failed",
		"error.webhook_invalid":         "Webhook rejected",
		"error.currency_not_found":      "Currency not supported",
		"error.currency_rate_invalid":   "Exchange rate must be greater than zero",
		"error.currency_fetch_failed":   "Unable to load currencies",
		"error.currency_update_failed":  "Unable to update currency",
		"error.review_exists":           "You have already reviewed this product",
		"error.review_rating_invalid":   "Rating must be between 1 and 5",
		"error.review_failed":           "Unable to process review",
		"error.notification_not_found":  "Notification not found",
		"error.notification_failed":     "Unable to load notifications",
		"error.wishlist_failed":         "Unable to update wishlist",
		"error.recently_viewed_failed":  "Unable to load recently viewed items",
		"error.admin_not_found":         "Administrator not found",
		"error.admin_role_invalid":      "Unknown role",
		"error.admin_roles_failed":      "Unable to assign roles",
		"cart.migration_partial":        "%d of %d items couldn't be migrated",
		"cart.item_added":               "Added to cart",
		"cart.buy_now_login":            "Please log in to complete your purchase",
		"checkout.coupon_applied":       "Coupon applied",
		"checkout.gift_applied":         "Gift card applied",
		"checkout.discount_removed":     "Discount removed",
		"payment.success":               "Payment successful, thank you for your order",
		"payment.failed":                "Payment failed, please try again",
		"payment.dismissed":             "Payment was cancelled",
		"auth.logged_out":               "You have been logged out",
		"notification.order_paid_title": "Payment received",
		"notification.order_paid_body":  "We received ₹%[2]s for order %[1]s",
	},
	LocaleHiIN: {
		"error.bad_request":             "अमान्य अनुरोध",
		"error.unauthorized":            "कृपया पहले लॉग इन करें",
		"error.forbidden":               "इस कार्य की अनुमति नहीं है",
		"error.not_found":               "संसाधन नहीं मिला",
		"error.internal":                "कुछ गलत हो गया, कृपया पुनः प्रयास करें",
		"error.rate_limited":            "बहुत अधिक अनुरोध, कृपया %d सेकंड बाद प्रयास करें",
		"error.rate_limit_unavailable":  "दर सीमक उपलब्ध नहीं है",
		"error.login_too_many":          "बहुत अधिक लॉगिन प्रयास, कृपया %d सेकंड बाद प्रयास करें",
		"error.auth_header_missing":     "प्राधिकरण टोकन नहीं मिला",
		"error.auth_header_invalid":     "प्राधिकरण हेडर अमान्य है",
		"error.token_invalid":           "सत्र अमान्य है, कृपया फिर से लॉग इन करें",
		"error.token_revoked":           "सत्र समाप्त हो गया, कृपया फिर से लॉग इन करें",
		"error.user_disabled":           "यह खाता निष्क्रिय कर दिया गया है",
		"error.jwt_secret_missing":      "प्रमाणीकरण कॉन्फ़िगर नहीं है",
		"error.customer_id_invalid":     "अमान्य ग्राहक",
		"error.customer_id_type_invalid": "अमान्य ग्राहक संदर्भ",
		"error.admin_id_invalid":        "अमान्य व्यवस्थापक",
		"error.admin_id_type_invalid":   "अमान्य व्यवस्थापक संदर्भ",
		"error.invalid_credentials":     "ईमेल या पासवर्ड गलत है",
		"error.email_invalid":           "कृपया मान्य ईमेल पता दर्ज करें",
		"error.email_exists":            "यह ईमेल पहले से पंजीकृत है",
		"error.password_too_short":      "पासवर्ड कम से कम 8 अक्षरों का होना चाहिए",
		"error.register_failed":         "पंजीकरण विफल रहा",
		"error.login_failed":            "लॉगिन विफल रहा",
		"error.logout_failed":           "लॉगआउट विफल रहा",
		"error.session_check_failed":    "सत्र सत्यापित नहीं हो सका",
		"error.product_not_found":       "उत्पाद नहीं मिला",
		"error.product_fetch_failed":    "उत्पाद लोड नहीं हो सके",
		"error.variant_not_found":       "यह वेरिएंट अब उपलब्ध नहीं है",
		"error.variant_inactive":        "यह वेरिएंट अभी उपलब्ध नहीं है",
		"error.option_type_invalid":     "कृपया मान्य विकल्प चुनें",
		"error.option_not_found":        "चुना गया विकल्प उपलब्ध नहीं है",
		"error.option_mismatch":         "चुना गया विकल्प इस उत्पाद से मेल नहीं खाता",
		"error.stock_insufficient":      "पर्याप्त स्टॉक उपलब्ध नहीं है",
		"error.quantity_invalid":        "अमान्य मात्रा",
		"error.cart_action_invalid":     "अमान्य कार्ट क्रिया",
		"error.cart_item_not_found":     "कार्ट आइटम नहीं मिला",
		"error.cart_version_conflict":   "आपका कार्ट कहीं और बदल गया है, कृपया जांचें",
		"error.cart_empty":              "आपका कार्ट खाली है",
		"error.cart_fetch_failed":       "कार्ट लोड नहीं हो सका",
		"error.cart_update_failed":      "कार्ट अपडेट नहीं हो सका",
		"error.coupon_code_required":    "कृपया कूपन कोड दर्ज करें",
		"error.coupon_invalid":          "अमान्य कूपन",
		"error.coupon_not_found":        "कूपन नहीं मिला",
		"error.coupon_inactive":         "यह कूपन निष्क्रिय है",
		"error.coupon_not_started":      "यह कूपन अभी शुरू नहीं हुआ है",
		"error.coupon_expired":          "यह कूपन समाप्त हो गया है",
		"error.coupon_usage_limit":      "इस कूपन की उपयोग सीमा पूरी हो गई है",
		"error.coupon_customer_limit":   "आप यह कूपन पहले ही उपयोग कर चुके हैं",
		"error.coupon_scope_invalid":    "यह कूपन आपके कार्ट पर लागू नहीं होता",
		"error.coupon_min_amount":       "कार्ट राशि कूपन की न्यूनतम राशि से कम है",
		"error.gift_card_code_required": "कृपया गिफ्ट कार्ड कोड दर्ज करें",
		"error.gift_card_not_found":     "गिफ्ट कार्ड नहीं मिला",
		"error.gift_card_inactive":      "यह गिफ्ट कार्ड निष्क्रिय है",
		"error.gift_card_expired":       "यह गिफ्ट कार्ड समाप्त हो गया है",
		"error.gift_card_redeemed":      "यह गिफ्ट कार्ड पहले ही भुनाया जा चुका है",
		"error.gift_card_exceeds_order": "गिफ्ट कार्ड मूल्य ऑर्डर मूल्य से अधिक नहीं हो सकता",
		"error.address_required":        "कृपया शिपिंग पता चुनें",
		"error.address_not_found":       "पता नहीं मिला",
		"error.address_invalid":         "कृपया पते के सभी फ़ील्ड भरें",
		"error.address_fetch_failed":    "पते लोड नहीं हो सके",
		"error.address_create_failed":   "पता सहेजा नहीं जा सका",
		"error.payment_method_invalid":  "कृपया समर्थित भुगतान विधि चुनें",
		"error.amount_mismatch":         "ऑर्डर राशि बदल गई है, कृपया ऑर्डर जांचें",
		"error.order_not_found":         "ऑर्डर नहीं मिला",
		"error.order_status_invalid":    "इस ऑर्डर का भुगतान अब नहीं हो सकता",
		"error.order_fetch_failed":      "ऑर्डर लोड नहीं हो सके",
		"error.order_create_failed":     "ऑर्डर नहीं दिया जा सका",
		"error.payment_not_found":       "भुगतान नहीं मिला",
		"error.payment_gateway_failed":  "भुगतान गेटवे उपलब्ध नहीं है, कृपया पुनः प्रयास करें",
		"error.payment_not_configured":  "यह भुगतान विधि उपलब्ध नहीं है",
		"error.payment_verify_failed":   "भुगतान सत्यापन विफल रहा",
		"error.checkout_state_invalid":  "चेकआउट सत्र अमान्य है, कृपया फिर से शुरू करें",
		"error.checkout_failed":         "चेकआउट विफल रहा",
		"error.webhook_invalid":         "वेबहुक अस्वीकार किया गया",
		"error.currency_not_found":      "मुद्रा समर्थित नहीं है",
		"error.currency_rate_invalid":   "विनिमय दर शून्य से अधिक होनी चाहिए",
		"error.currency_fetch_failed":   "मुद्राएं लोड नहीं हो सकीं",
		"error.currency_update_failed":  "मुद्रा अपडेट नहीं हो सकी",
		"error.review_exists":           "आप इस उत्पाद की समीक्षा पहले ही कर चुके हैं",
		"error.review_rating_invalid":   "रेटिंग 1 से 5 के बीच होनी चाहिए",
		"error.review_failed":           "समीक्षा संसाधित नहीं हो सकी",
		"error.notification_not_found":  "सूचना नहीं मिली",
		"error.notification_failed":     "सूचनाएं लोड नहीं हो सकीं",
		"error.wishlist_failed":         "विशलिस्ट अपडेट नहीं हो सकी",
		"error.recently_viewed_failed":  "हाल ही में देखे गए आइटम लोड नहीं हो सके",
		"error.admin_not_found":         "व्यवस्थापक नहीं मिला",
		"error.admin_role_invalid":      "अज्ञात भूमिका",
		"error.admin_roles_failed":      "भूमिकाएं असाइन नहीं हो सकीं",
		"cart.migration_partial":        "%[2]d में से %[1]d आइटम स्थानांतरित नहीं हो सके",
		"cart.item_added":               "कार्ट में जोड़ा गया",
		"cart.buy_now_login":            "खरीदारी पूरी करने के लिए कृपया लॉग इन करें",
		"checkout.coupon_applied":       "कूपन लागू हुआ",
		"checkout.gift_applied":         "गिफ्ट कार्ड लागू हुआ",
		"checkout.discount_removed":     "छूट हटाई गई",
		"payment.success":               "भुगतान सफल, आपके ऑर्डर के लिए धन्यवाद",
		"payment.failed":                "भुगतान विफल, कृपया पुनः प्रयास करें",
		"payment.dismissed":             "भुगतान रद्द किया गया",
		"auth.logged_out":               "आप लॉग आउट हो गए हैं",
		"notification.order_paid_title": "भुगतान प्राप्त हुआ",
		"notification.order_paid_body":  "ऑर्डर %[1]s के लिए ₹%[2]s प्राप्त हुआ",
	},
}
