package hattrick

const (
	homeURL         = "https://hattrick.org/"
	transfersURLFmt = "https://%s.hattrick.org/World/Transfers/"
	siteURLFmt      = "https://%s.hattrick.org/%s"
)

// Login.
const (
	selCookieReject  = "button[data-cky-tag='reject-button']"
	selLoginLink     = "div.landing-form.presign-up p.extra-message a:has-text('Log In')"
	selLoginName     = "input[id='inputLoginname']"
	selLoginPassword = "input[id='inputPassword']"
	selMyClub        = "div.boxHead a:has-text('My Club')"
)

// Transfer search form and results.
const (
	selClearFilter  = "a[id='ctl00_ctl00_CPContent_CPMain_butClear']"
	selSkill4       = "#ctl00_ctl00_CPContent_CPMain_ddlSkill4"
	selSearch       = "#ctl00_ctl00_CPContent_CPMain_butSearch"
	selResultsTitle = "#mainBody h1:has-text('Search Result')"
	selPager        = "#ctl00_ctl00_CPContent_CPMain_ucPager_divWrapper"
	selPagerLinks   = "#ctl00_ctl00_CPContent_CPMain_ucPager_divWrapper a.page[href]"
	selPagerInfoFmt = "div.PagerRight_Default:has-text('Displaying page %d of')"
	selPlayerInfo   = "div.transferPlayerInfo"
	selPlayerLink   = "h3.transfer_search_playername > a"
	selFlexParent   = "div[class*='flex']"
	selRowDeadline  = "span[id*='TransferPlayer_lblDeadline']"
)

// Player page.
const (
	selHighestBid      = "#ctl00_ctl00_CPContent_CPMain_pnlHighestBid p"
	selBidParagraphs   = "#ctl00_ctl00_CPContent_CPMain_updBid p"
	selInjury          = "i.icon-injury"
	selTransferCompare = "a:has-text('Transfer Compare')"
	selMedianRow       = "tr:has(th:text('Median')) th.transfer-compare-bid"
	selTableRows       = "tr"
)
